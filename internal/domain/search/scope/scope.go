package scope

// Scope selects which document fields free text is matched against.
type Scope string

// Search scope constants.
const (
	// All matches filename, body text, and summary.
	All      Scope = "all"
	Filename Scope = "filename"
	Content  Scope = "content"
	Summary  Scope = "summary"
)

// IsValid checks if the scope is one of the supported values.
func (s Scope) IsValid() bool {
	return s == All || s == Filename || s == Content || s == Summary
}
