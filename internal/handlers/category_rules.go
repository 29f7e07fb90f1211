package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"grocery-sorter/internal/models"
	"grocery-sorter/internal/repository"
)

func (h *Handler) GetCategoryRules(w http.ResponseWriter, r *http.Request) {
	filter := models.CategoryRuleFilter{Category: r.URL.Query().Get("category")}

	rules, err := h.rules.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list rules", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, rules)
}

func (h *Handler) CreateCategoryRule(w http.ResponseWriter, r *http.Request) {
	var rule models.CategoryRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if msg := h.validateRule(&rule); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	if err := h.rules.Create(r.Context(), &rule); err != nil {
		h.ruleError(w, err)
		return
	}

	if !h.reloadAfterChange(w, r) {
		return
	}
	h.writeJSON(w, http.StatusCreated, rule)
}

func (h *Handler) UpdateCategoryRule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid rule ID", http.StatusBadRequest)
		return
	}

	var rule models.CategoryRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if msg := h.validateRule(&rule); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	if err := h.rules.Update(r.Context(), id, &rule); err != nil {
		h.ruleError(w, err)
		return
	}

	if !h.reloadAfterChange(w, r) {
		return
	}
	h.writeJSON(w, http.StatusOK, rule)
}

func (h *Handler) DeleteCategoryRule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid rule ID", http.StatusBadRequest)
		return
	}

	if err := h.rules.Delete(r.Context(), id); err != nil {
		h.ruleError(w, err)
		return
	}

	if !h.reloadAfterChange(w, r) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCategories lists the stored categories in priority order.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.rules.Categories(r.Context())
	if err != nil {
		h.logger.Error("list categories", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) validateRule(rule *models.CategoryRule) string {
	rule.Category = strings.TrimSpace(rule.Category)
	rule.Keyword = strings.TrimSpace(rule.Keyword)

	switch {
	case rule.Category == "":
		return "Category is required"
	case rule.Keyword == "":
		return "Keyword is required"
	case strings.EqualFold(rule.Category, h.catchAll):
		return "Category name " + h.catchAll + " is reserved"
	}
	return ""
}

func (h *Handler) ruleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrRuleNotFound):
		http.Error(w, "Rule not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrDuplicateRule):
		http.Error(w, "Rule already exists", http.StatusConflict)
	default:
		h.logger.Error("rule store", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) reloadAfterChange(w http.ResponseWriter, r *http.Request) bool {
	if err := h.Reload(r.Context()); err != nil {
		h.logger.Error("reload classifier", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return false
	}
	return true
}
