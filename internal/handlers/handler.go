package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"grocery-sorter/internal/classifier"
	"grocery-sorter/internal/middleware"
	"grocery-sorter/internal/repository"
)

type Handler struct {
	rules    repository.RuleRepository
	csrf     *middleware.CSRFTokenStore
	catchAll string
	logger   *zap.Logger
	maxBody  int64

	// Replaced wholesale on every rule change; a published classifier is never modified.
	classifier atomic.Pointer[classifier.Classifier]
}

// New builds a handler and loads the first classifier from the rule store.
func New(ctx context.Context, rules repository.RuleRepository, csrf *middleware.CSRFTokenStore, catchAll string, logger *zap.Logger) (*Handler, error) {
	h := &Handler{
		rules:    rules,
		csrf:     csrf,
		catchAll: catchAll,
		logger:   logger,
		maxBody:  maxImportSize,
	}
	if err := h.Reload(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Reload rebuilds the classifier from the stored rules and publishes it.
func (h *Handler) Reload(ctx context.Context) error {
	table, err := h.rules.Table(ctx)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	c, err := classifier.New(table, classifier.WithCatchAll(h.catchAll))
	if err != nil {
		return fmt.Errorf("build classifier: %w", err)
	}

	h.classifier.Store(c)
	h.logger.Info("classifier loaded",
		zap.Int("categories", len(table)),
		zap.String("catch_all", c.CatchAll()),
	)
	return nil
}

func (h *Handler) Classifier() *classifier.Classifier {
	return h.classifier.Load()
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v before writing anything, so an encoding failure still
// becomes a 500.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		h.logger.Error("encode response", zap.Error(err))
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Debug("write response", zap.Error(err))
	}
}
