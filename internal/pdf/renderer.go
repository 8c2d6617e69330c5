// Package pdf lays out generated text as a paginated PDF.
//
// Every page carries a centred header line. An optional title line follows
// on the first page, then the body is word-wrapped to the page width and
// flows onto new pages as needed. Text is set in a TrueType font loaded from
// disk at render time so non-ASCII characters are embedded correctly.
package pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/sfnt"

	"github.com/fedutinova/docgen/internal/common"
)

const (
	DefaultFontFamily = "DejaVu"
	DefaultFontSize   = 12
	lineHeight        = 10 // mm, as in the header/body cells

	// fpdf keeps UTF-8 glyph widths in a table indexed by rune, BMP only.
	maxRune = 0xFFFF
)

// Page is the content of one generated document.
type Page struct {
	Header string
	Title  string
	Body   string
}

type Options struct {
	FontPath   string
	FontFamily string
	FontSize   float64
	Compress   bool
	Verify     bool
}

type Renderer struct {
	opts Options
}

func NewRenderer(opts Options) *Renderer {
	if opts.FontFamily == "" {
		opts.FontFamily = DefaultFontFamily
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	return &Renderer{opts: opts}
}

func (r *Renderer) FontPath() string {
	return r.opts.FontPath
}

// CheckFont reports whether the configured font can be read, parsed and
// used to lay out a page.
func (r *Renderer) CheckFont() error {
	font, err := r.loadFont()
	if err != nil {
		return err
	}
	_, err = r.layout(font, Page{Header: "Aa", Title: "Aa", Body: "Aa"}, func(doc *fpdf.Fpdf) error {
		return doc.Output(io.Discard)
	})
	return err
}

type fontFile struct {
	data        []byte
	replacement rune
}

func (r *Renderer) loadFont() (*fontFile, error) {
	data, err := os.ReadFile(r.opts.FontPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s not found", common.ErrFontMissing, r.opts.FontPath)
		}
		return nil, fmt.Errorf("failed to read font %s: %w", r.opts.FontPath, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", common.ErrFontMissing, r.opts.FontPath)
	}

	parsed, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a usable TrueType font: %v", common.ErrFontMissing, r.opts.FontPath, err)
	}
	if parsed.NumGlyphs() == 0 {
		return nil, fmt.Errorf("%w: %s has no glyphs", common.ErrFontMissing, r.opts.FontPath)
	}

	replacement := '?'
	if idx, err := parsed.GlyphIndex(&sfnt.Buffer{}, utf8.RuneError); err == nil && idx != 0 {
		replacement = utf8.RuneError
	}
	return &fontFile{data: data, replacement: replacement}, nil
}

// RenderFile writes page to path and returns the number of pages written.
func (r *Renderer) RenderFile(ctx context.Context, path string, page Page) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	start := time.Now()

	font, err := r.loadFont()
	if err != nil {
		return 0, err
	}

	pages, err := r.layout(font, page, func(doc *fpdf.Fpdf) error {
		return doc.OutputFileAndClose(path)
	})
	if err != nil {
		return 0, err
	}

	if r.opts.Verify {
		verified, err := Inspect(path)
		if err != nil {
			return 0, err
		}
		pages = verified
	}

	slog.Debug("pdf rendered",
		"path", path,
		"pages", pages,
		"title", page.Title != "",
		"body_length", len(page.Body),
		"duration", time.Since(start))

	return pages, nil
}

// layout composes page and hands the document to output. fpdf panics on some
// malformed fonts; those panics come back as render errors.
func (r *Renderer) layout(font *fontFile, page Page, output func(*fpdf.Fpdf) error) (pages int, err error) {
	defer func() {
		if p := recover(); p != nil {
			pages, err = 0, fmt.Errorf("%w: pdf layout failed: %v", common.ErrRender, p)
		}
	}()

	page = Page{
		Header: substitute(page.Header, font.replacement),
		Title:  substitute(page.Title, font.replacement),
		Body:   substitute(page.Body, font.replacement),
	}
	doc := r.compose(font.data, page)
	pages = doc.PageCount()
	if err := output(doc); err != nil {
		return 0, fmt.Errorf("%w: failed to write pdf: %w", common.ErrRender, err)
	}
	return pages, nil
}

// substitute replaces runes the layout engine cannot measure, along with
// invalid UTF-8, by repl.
func substitute(s string, repl rune) string {
	return strings.Map(func(c rune) rune {
		if c > maxRune || c == utf8.RuneError {
			return repl
		}
		return c
	}, s)
}

func (r *Renderer) compose(font []byte, page Page) *fpdf.Fpdf {
	family, size := r.opts.FontFamily, r.opts.FontSize

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(r.opts.Compress)
	doc.SetCreator("docgen", true)
	doc.SetAutoPageBreak(true, 15)
	doc.AddUTF8FontFromBytes(family, "", font)

	if page.Header != "" {
		doc.SetHeaderFunc(func() {
			doc.SetFont(family, "", size)
			doc.CellFormat(0, lineHeight, page.Header, "", 1, "C", false, 0, "")
		})
	}

	doc.AddPage()
	doc.SetFont(family, "", size)
	if page.Title != "" {
		doc.CellFormat(0, lineHeight, page.Title, "", 1, "L", false, 0, "")
	}
	doc.MultiCell(0, lineHeight, page.Body, "", "L", false)

	return doc
}
