// Package files resolves experiment selections and writes artifacts.
//
// Resolver turns either an explicit file list or a raw data folder into
// ordered ExperimentRecords. A folder contributes every regular file whose
// name contains no "." (IsRawDataFile), in os.ReadDir order. The experiment
// name is the file name minus its device designation suffix, e.g.
// "sample1_PO" -> "sample1"; names that are too short or carry a malformed
// suffix are rejected with ErrInvalidExperimentName.
//
// Manager writes artifacts below an output layout. WriteAtomic goes through a
// temporary sibling file and a rename so an interrupted write never replaces a
// previous artifact with a partial one.
//
// Example usage:
//
//	resolver, err := files.NewResolver(cfg.Analysis, logger)
//	records, err := resolver.ResolveFolder("/data/run-42")
//
//	manager := files.NewManager(layout, logger)
//	err = manager.WriteAtomic(layout.FolderSummaryPath(), func(w io.Writer) error {
//		return workbook.Write(w)
//	})
package files
