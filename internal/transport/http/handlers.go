package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/fedutinova/docgen/internal/common"
	"github.com/fedutinova/docgen/internal/config"
	"github.com/fedutinova/docgen/internal/models"
	"github.com/fedutinova/docgen/internal/validation"
)

const WelcomeMessage = "Welcome to the Document Generation API"

type Generator interface {
	Generate(ctx context.Context, req models.DocumentRequest) (*models.RenderedDocument, error)
}

type FontChecker interface {
	CheckFont() error
}

type ScratchChecker interface {
	Writable() error
}

type Handlers struct {
	Generator Generator
	Font      FontChecker
	Scratch   ScratchChecker
	Config    config.Config
}

// errorResponse mirrors the {"detail": ...} body clients already parse.
type errorResponse struct {
	Detail any `json:"detail"`
}

func (h *Handlers) Routers(r chi.Router) {
	r.Get("/", h.root)
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Group(func(r chi.Router) {
		if h.Config.InboundRateLimit > 0 {
			r.Use(httprate.LimitByIP(h.Config.InboundRateLimit, time.Minute))
		}
		r.Post("/generate_document/", h.generateDocument)
		r.Post("/generate_document", h.generateDocument)
	})
}

func (h *Handlers) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
}

func (h *Handlers) generateDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxBodySize)

	req, err := validation.DecodeDocumentRequest(r.Body)
	if err != nil {
		h.writeRequestError(w, r, err)
		return
	}

	ctx := r.Context()
	if h.Config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Config.RequestTimeout)
		defer cancel()
	}

	doc, err := h.Generator.Generate(ctx, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(doc.Size()))
	w.Header().Set("X-Page-Count", strconv.Itoa(doc.Pages))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		slog.Warn("write pdf response", "err", err, "request_id", middleware.GetReqID(r.Context()))
	}
}

func (h *Handlers) writeRequestError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	var fieldErrs validation.ValidationErrors
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Detail: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		})
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: fieldErrs})
	default:
		slog.Warn("invalid request body", "err", err, "request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := common.KindOf(err)
	if kind == common.KindValidation {
		h.writeRequestError(w, r, err)
		return
	}

	op := ""
	var pipeErr *common.Error
	if errors.As(err, &pipeErr) {
		op = pipeErr.Op
	}
	slog.Error("document generation failed",
		"kind", kind.String(),
		"op", op,
		"err", err,
		"request_id", middleware.GetReqID(r.Context()))

	writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "err", err)
	}
}
