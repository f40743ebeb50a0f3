// Package flowcalc is the default calculator for flow-cell raw data files.
//
// A raw data file is an extension-less tab or comma separated log with a
// header row. The time, flow, current, voltage and cycle columns are located
// by header name (names are configurable, matching ignores case).
//
// Per file the calculator produces the three summary tables (flow and power
// summary, pulse and cycle calc, figures of merit) and the per-cycle boxplot
// rows. Polarity of a pulse follows the sign of the applied voltage.
package flowcalc
