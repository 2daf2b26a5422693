package entity

import (
	"time"

	"github.com/google/uuid"
)

// Paper represents one submitted document for data transfer between layers.
type Paper struct {
	ID          uuid.UUID `json:"id"`
	SourcePath  string    `json:"source_path"`
	FileExt     string    `json:"file_ext"`
	Status      string    `json:"status"`
	DocumentRef *string   `json:"document_ref,omitempty"` // backend file URI once uploaded
	ErrorMsg    *string   `json:"error_message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
