package models

import (
	"github.com/google/uuid"
)

// DocumentRequest is the body of POST /generate_document/.
type DocumentRequest struct {
	DocumentType string `json:"document_type,omitempty" validate:"max=200"`
	UserInput    string `json:"user_input" validate:"required,notblank,max=8000"`
}

// RenderedDocument holds a PDF read back from its scratch file.
type RenderedDocument struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Data     []byte    `json:"-"`
	Pages    int       `json:"pages"`
}

// Size returns the document length in bytes
func (d *RenderedDocument) Size() int {
	return len(d.Data)
}
