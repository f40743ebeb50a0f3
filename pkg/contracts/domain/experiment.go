package domain

// ExperimentRecord identifies one raw data file of a flow-cell run.
// Records are created when a selection is resolved and never modified afterwards.
type ExperimentRecord struct {
	// Name is the file name with the device designation suffix removed.
	Name string `json:"name" validate:"required"`
	// Path locates the raw data file on disk.
	Path string `json:"path" validate:"required"`
	// FileName is the base name of Path.
	FileName string `json:"file_name"`
}

// SelectionKind tells how a selection was made
type SelectionKind string

const (
	SelectionNone   SelectionKind = ""
	SelectionFiles  SelectionKind = "files"
	SelectionFolder SelectionKind = "folder"
)

// Selection is the resolved set of experiments an operation works on.
type Selection struct {
	Kind    SelectionKind      `json:"kind"`
	Source  string             `json:"source,omitempty"` // folder path for folder selections
	Records []ExperimentRecord `json:"records"`
}

// IsEmpty reports whether the selection holds no experiments
func (s Selection) IsEmpty() bool {
	return len(s.Records) == 0
}

// Last returns the last record of the selection in selection order.
func (s Selection) Last() (ExperimentRecord, bool) {
	if len(s.Records) == 0 {
		return ExperimentRecord{}, false
	}
	return s.Records[len(s.Records)-1], true
}

// Paths returns the file locators of all records in order
func (s Selection) Paths() []string {
	paths := make([]string, 0, len(s.Records))
	for _, r := range s.Records {
		paths = append(paths, r.Path)
	}
	return paths
}
