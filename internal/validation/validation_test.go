package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedutinova/docgen/internal/common"
	"github.com/fedutinova/docgen/internal/models"
)

func TestDecodeDocumentRequest_Valid(t *testing.T) {
	req, err := DecodeDocumentRequest(strings.NewReader(`{"document_type":"lease","user_input":"Rent flat X to B"}`))
	require.NoError(t, err)
	assert.Equal(t, "lease", req.DocumentType)
	assert.Equal(t, "Rent flat X to B", req.UserInput)
}

func TestDecodeDocumentRequest_DocumentTypeOptional(t *testing.T) {
	req, err := DecodeDocumentRequest(strings.NewReader(`{"user_input":"Generate a rental agreement"}`))
	require.NoError(t, err)
	assert.Empty(t, req.DocumentType)
}

func TestDecodeDocumentRequest_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing user_input", `{"document_type":"lease"}`, "user_input"},
		{"empty user_input", `{"user_input":""}`, "user_input"},
		{"blank user_input", `{"user_input":"   \n\t"}`, "user_input"},
		{"wrong type", `{"user_input":42}`, "user_input"},
		{"empty body", ``, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocumentRequest(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)

			var errs ValidationErrors
			require.True(t, errors.As(err, &errs))
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestDecodeDocumentRequest_MalformedJSON(t *testing.T) {
	_, err := DecodeDocumentRequest(strings.NewReader(`{"user_input": "x"`))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBadRequest)
	assert.NotErrorIs(t, err, common.ErrValidation)
}

func TestValidateDocumentRequest_Lengths(t *testing.T) {
	errs := ValidateDocumentRequest(models.DocumentRequest{
		DocumentType: strings.Repeat("a", 201),
		UserInput:    strings.Repeat("б", MaxTextLength+1),
	})
	require.Len(t, errs, 2)
	assert.Equal(t, "document_type", errs[0].Field)
	assert.Equal(t, "user_input", errs[1].Field)
	assert.Contains(t, errs[1].Message, "8000")

	// length counts characters, not bytes
	assert.Empty(t, ValidateDocumentRequest(models.DocumentRequest{UserInput: strings.Repeat("б", MaxTextLength)}))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}}
	assert.Equal(t, "a: x; b: y", errs.Error())
}
