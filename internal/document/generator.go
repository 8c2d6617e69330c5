// Package document runs one generation request end to end:
// validate, synthesize text, render the PDF, read it back.
package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fedutinova/docgen/internal/common"
	"github.com/fedutinova/docgen/internal/gpt"
	"github.com/fedutinova/docgen/internal/metrics"
	"github.com/fedutinova/docgen/internal/models"
	"github.com/fedutinova/docgen/internal/pdf"
	"github.com/fedutinova/docgen/internal/storage"
	"github.com/fedutinova/docgen/internal/validation"
)

const (
	DefaultFilename = "generated_document.pdf"
	DefaultHeader   = "Официальный документ"
	titleFormat     = "Тип документа: %s"
	pdfContentType  = "application/pdf"
)

type Synthesizer interface {
	Generate(ctx context.Context, documentType, userInput string) (*gpt.ProcessResult, error)
}

type Renderer interface {
	RenderFile(ctx context.Context, path string, page pdf.Page) (int, error)
}

type Options struct {
	Header   string
	Filename string
}

type Generator struct {
	synth    Synthesizer
	renderer Renderer
	storage  storage.Storage
	header   string
	filename string
}

func NewGenerator(synth Synthesizer, renderer Renderer, store storage.Storage, opts Options) *Generator {
	if opts.Filename == "" {
		opts.Filename = DefaultFilename
	}
	return &Generator{
		synth:    synth,
		renderer: renderer,
		storage:  store,
		header:   opts.Header,
		filename: opts.Filename,
	}
}

func (g *Generator) Filename() string {
	return g.filename
}

// Generate produces a PDF for req. Errors are *common.Error values whose kind
// tells the caller which step failed.
func (g *Generator) Generate(ctx context.Context, req models.DocumentRequest) (*models.RenderedDocument, error) {
	doc, err := g.generate(ctx, req)
	if err != nil {
		metrics.RecordOutcome(common.KindOf(err).String())
		return nil, err
	}
	metrics.RecordOutcome("ok")
	metrics.RecordDocument(doc.Size(), doc.Pages)
	return doc, nil
}

func (g *Generator) generate(ctx context.Context, req models.DocumentRequest) (*models.RenderedDocument, error) {
	if errs := validation.ValidateDocumentRequest(req); len(errs) > 0 {
		return nil, common.Validation("validate request", errs)
	}

	text, err := g.synthesize(ctx, req)
	if err != nil {
		return nil, common.Upstream("generate text", err)
	}

	res, err := g.storage.Reserve(ctx, g.filename)
	if err != nil {
		return nil, common.WrapInternal("reserve scratch file", err)
	}
	defer g.cleanup(ctx, res.Key)

	start := time.Now()
	pages, err := g.renderer.RenderFile(ctx, res.Path, pdf.Page{
		Header: g.header,
		Title:  titleFor(req.DocumentType),
		Body:   text.Content,
	})
	metrics.RenderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, common.Render("render pdf", err)
	}

	data, err := g.readBack(ctx, res.Key)
	if err != nil {
		return nil, common.Render("read back pdf", err)
	}

	doc := &models.RenderedDocument{
		ID:       uuid.New(),
		Filename: g.filename,
		Data:     data,
		Pages:    pages,
	}

	slog.Info("document generated",
		"document_id", doc.ID,
		"scratch_key", res.Key,
		"document_type", req.DocumentType,
		"model", text.Model,
		"tokens_used", text.TokensUsed,
		"llm_ms", text.ProcessingTimeMs,
		"pages", doc.Pages,
		"size_bytes", doc.Size())

	return doc, nil
}

func (g *Generator) synthesize(ctx context.Context, req models.DocumentRequest) (*gpt.ProcessResult, error) {
	start := time.Now()
	text, err := g.synth.Generate(ctx, req.DocumentType, req.UserInput)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.LLMCallDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	metrics.LLMTokensUsed.WithLabelValues(text.Model).Add(float64(text.TokensUsed))
	return text, nil
}

func (g *Generator) readBack(ctx context.Context, key string) ([]byte, error) {
	rc, contentType, err := g.storage.GetFile(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if contentType != pdfContentType {
		return nil, fmt.Errorf("%w (detected %s)", common.ErrNotPDFOutput, contentType)
	}

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	return data, nil
}

// cleanup runs even when ctx is done so a timed-out request leaves nothing behind.
func (g *Generator) cleanup(ctx context.Context, key string) {
	if err := g.storage.DeleteFile(context.WithoutCancel(ctx), key); err != nil {
		slog.Warn("failed to remove scratch file", "key", key, "error", err)
	}
}

func titleFor(documentType string) string {
	if documentType == "" {
		return ""
	}
	return fmt.Sprintf(titleFormat, documentType)
}
