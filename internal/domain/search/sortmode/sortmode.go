package sortmode

// Mode is the result ordering strategy.
type Mode string

// Sort mode constants.
const (
	// Relevance orders by text-match score; only meaningful with free text.
	Relevance Mode = "relevance"
	// Recency orders by upload time, newest first. Default.
	Recency  Mode = "recency"
	Uploaded Mode = "uploaded"
	// DocDate orders by the extracted document date, upload time as tie-break.
	DocDate  Mode = "date"
	Filename Mode = "filename"
	Size     Mode = "size"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	switch m {
	case Relevance, Recency, Uploaded, DocDate, Filename, Size:
		return true
	}
	return false
}
