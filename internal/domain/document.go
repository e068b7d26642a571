package domain

import (
	"fmt"
	"regexp"
	"time"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxBodySize is the maximum extracted body text size in bytes.
const MaxBodySize = 1 << 20 // 1MB

// Document is one record of the searchable collection. The enrichment
// pipelines (OCR, summarization) populate Body, Summary, Category and
// the entity lists before the record reaches the ingest API; the search
// core only ever reads them.
type Document struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Filename    string     `json:"filename"`
	FolderPath  string     `json:"folder_path"`
	FolderID    string     `json:"folder_id,omitempty"`
	Mime        string     `json:"mime"`
	Size        int64      `json:"size"`
	Category    string     `json:"category,omitempty"`
	Uploaded    time.Time  `json:"uploaded"`
	DocDate     *time.Time `json:"doc_date,omitempty"`
	Body        string     `json:"body,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Entities    []string   `json:"entities,omitempty"`
	KeyEntities []string   `json:"key_entities,omitempty"`
}

// Validate checks the record before it is written.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Owner and filename are required.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: document ID is required", ErrInvalidDocument)
	}
	if len(d.ID) > 256 {
		return fmt.Errorf("%w: document ID too long (max 256)", ErrInvalidDocument)
	}
	if !idRegex.MatchString(d.ID) {
		return fmt.Errorf("%w: document ID must be alphanumeric with underscores and hyphens", ErrInvalidDocument)
	}
	if d.OwnerID == "" {
		return fmt.Errorf("%w: owner ID is required", ErrInvalidDocument)
	}
	if d.Filename == "" {
		return fmt.Errorf("%w: filename is required", ErrInvalidDocument)
	}
	if d.Size < 0 {
		return fmt.Errorf("%w: size is negative", ErrInvalidDocument)
	}
	if len(d.Body) > MaxBodySize {
		return fmt.Errorf("%w: body too large (max %d bytes)", ErrInvalidDocument, MaxBodySize)
	}
	if d.Uploaded.IsZero() {
		return fmt.Errorf("%w: uploaded timestamp is required", ErrInvalidDocument)
	}
	return nil
}

// HasText reports whether meaningful text was extracted from the file.
func (d *Document) HasText() bool { return d.Body != "" }
