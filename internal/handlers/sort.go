package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

const maxSortBody = 1 << 20

type sortRequest struct {
	Text string `json:"text"`
}

// SortText groups the items in {"text": "..."} and answers with the grouping
// as a JSON object in category order.
func (h *Handler) SortText(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSortBody)).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON data: "+err.Error(), http.StatusBadRequest)
		return
	}

	result := h.Classifier().Sort(req.Text)
	h.logger.Debug("sorted list",
		zap.Int("items", result.Count()),
		zap.Strings("categories", result.Categories()),
	)

	h.writeJSON(w, http.StatusOK, result)
}
