package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_KeepsOriginalMessage(t *testing.T) {
	err := Upstream("create chat completion", errors.New("connection refused"))
	assert.Equal(t, "connection refused", err.Error())
}

func TestError_IsMatchesKindSentinel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"validation", Validation("decode", errors.New("bad")), ErrValidation},
		{"upstream", Upstream("complete", errors.New("bad")), ErrUpstream},
		{"render", Render("write pdf", errors.New("bad")), ErrRender},
		{"internal", WrapInternal("scratch", errors.New("bad")), ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.want)
		})
	}
}

func TestError_NilStaysNil(t *testing.T) {
	assert.NoError(t, Render("noop", nil))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindRender, KindOf(fmt.Errorf("handler: %w", Render("font", ErrFontMissing))))
	assert.Equal(t, KindUpstream, KindOf(ErrEmptyOutput))
	assert.Equal(t, KindRender, KindOf(ErrNotPDFOutput))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.True(t, IsRender(Render("font", ErrFontMissing)))
	assert.False(t, IsUpstream(Render("font", ErrFontMissing)))
	assert.True(t, IsValidation(Validation("body", errors.New("missing"))))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "upstream", KindUpstream.String())
	assert.Equal(t, "render", KindRender.String())
	assert.Equal(t, "internal", Kind(42).String())
}
