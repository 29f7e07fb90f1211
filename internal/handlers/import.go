package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"grocery-sorter/internal/classifier"
)

const (
	maxImportSize = 10 << 20
	// Upload parts beyond this are spooled to temporary files.
	importMemory = 1 << 20
)

// ImportList sorts an uploaded shopping list. CSV files contribute every
// non-empty cell; any other file is split like typed text.
func (h *Handler) ImportList(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(importMemory); err != nil {
		h.logger.Warn("import: failed to parse form", zap.Error(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	log := h.logger.With(zap.String("filename", header.Filename), zap.Int64("size", header.Size))

	var items []string
	if strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		items, err = h.parseCSV(file, log)
	} else {
		items, err = parseText(file)
	}
	if err != nil {
		log.Warn("import: failed to read list", zap.Error(err))
		http.Error(w, fmt.Sprintf("Failed to read list: %v", err), http.StatusBadRequest)
		return
	}

	if len(items) == 0 {
		http.Error(w, "No items found in file", http.StatusBadRequest)
		return
	}

	result := h.Classifier().Categorize(items)
	log.Info("import: sorted list", zap.Int("items", result.Count()))

	h.writeJSON(w, http.StatusOK, importResponse{
		Filename: header.Filename,
		Count:    result.Count(),
		Result:   result,
	})
}

type importResponse struct {
	Filename string            `json:"filename"`
	Count    int               `json:"count"`
	Result   classifier.Result `json:"result"`
}

func (h *Handler) parseCSV(file io.Reader, log *zap.Logger) ([]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var items []string
	var problems []string
	lineNum := 0

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("record %d: %v", lineNum, err))
			continue
		}

		for _, field := range record {
			if item := strings.TrimSpace(field); item != "" {
				items = append(items, item)
			}
		}
	}

	if len(problems) > 0 && len(items) == 0 {
		return nil, fmt.Errorf("no readable rows: %s", strings.Join(problems, "; "))
	}
	if len(problems) > 0 {
		log.Warn("import: skipped unreadable rows",
			zap.Int("items", len(items)),
			zap.Strings("errors", problems),
		)
	}

	return items, nil
}

func parseText(file io.Reader) ([]string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return classifier.Tokenize(string(data)), nil
}
