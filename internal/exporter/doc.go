// Package exporter writes result tables as .xlsx workbooks.
//
// WorkbookWriter.WriteSummary produces the summary workbook with exactly three
// sheets in fixed order: "figures of merit", "flow and power summary" and
// "pulse and cycle calc". Each sheet starts with a header row of the table
// columns, followed by the rows in table order. WriteTable writes a single
// sheet, used for the diagnostic boxplot table.
//
// Workbooks are streamed through an ArtifactWriter (files.Manager) which
// writes a temporary sibling and renames it into place.
//
// Example usage:
//
//	writer := exporter.NewWorkbookWriter(files.NewManager(layout, logger), logger)
//	err := writer.WriteSummary(layout.FolderSummaryPath(), summary)
package exporter
