// Package pdftest provides fixtures for tests that render or inspect PDFs.
package pdftest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"golang.org/x/image/font/gofont/goregular"
)

// RentalAgreement is a canned completion used across packages.
const RentalAgreement = "RENTAL AGREEMENT\n\nThis agreement is made between landlord A and tenant B " +
	"for apartment X. The tenant agrees to pay the monthly rent on the first day of each month."

// DocumentRequest is an example request body.
type DocumentRequest struct {
	Name     string
	Body     string
	Expected int
}

// Requests returns example request bodies with the status the endpoint should answer.
func Requests() []DocumentRequest {
	return []DocumentRequest{
		{Name: "rental_agreement", Body: `{"user_input": "Generate a rental agreement for apartment X between landlord A and tenant B"}`, Expected: 200},
		{Name: "typed_request", Body: `{"document_type": "доверенность", "user_input": "Иванов доверяет Петрову получить посылку"}`, Expected: 200},
		{Name: "missing_user_input", Body: `{"document_type": "lease"}`, Expected: 422},
		{Name: "empty_user_input", Body: `{"user_input": ""}`, Expected: 422},
		{Name: "numeric_user_input", Body: `{"user_input": 7}`, Expected: 422},
		{Name: "malformed_json", Body: `{"user_input": "x"`, Expected: 400},
	}
}

// WriteFont writes a TrueType font with Latin and Cyrillic glyphs into a
// temporary directory and returns its path.
func WriteFont(tb testing.TB) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "fonts", "GoRegular.ttf")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		tb.Fatalf("failed to create font dir: %v", err)
	}
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		tb.Fatalf("failed to write font: %v", err)
	}
	return path
}

// ContainsText reports whether an uncompressed PDF shows s through a
// UTF-8 TrueType font, which stores strings as UTF-16BE.
func ContainsText(data []byte, s string) bool {
	var encoded []byte
	for _, u := range utf16.Encode([]rune(s)) {
		encoded = append(encoded, byte(u>>8), byte(u))
	}
	return bytes.Contains(data, encoded)
}
