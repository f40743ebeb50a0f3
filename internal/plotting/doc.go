// Package plotting renders flow-cell figures as PNG files with go-chart.
//
// Boxplot draws one box per sample: the box spans Q1 to Q3 with a median
// line, whiskers reach the most extreme values within 1.5 IQR and values
// beyond are drawn as outlier circles. The background is transparent.
//
// CycleAverage and Snapshot draw the time-series figures of a file selection.
package plotting
