package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"grocery-sorter/internal/classifier"
	"grocery-sorter/internal/sheet"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Text      string
	CanSort   bool
	HasResult bool
	Groups    []classifier.Group
	CSRFToken string
}

// IndexPage renders an empty sheet.
func (h *Handler) IndexPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, sheet.New(h.Classifier()))
}

// SortForm handles the "sort" button: it groups the submitted text and
// renders it next to the result.
func (h *Handler) SortForm(w http.ResponseWriter, r *http.Request) {
	s := sheet.New(h.Classifier())
	s.SetText(r.FormValue("text"))
	if s.CanSort() {
		s.Sort(s.Text())
	}
	h.render(w, s)
}

// ClearForm handles the "clear" button.
func (h *Handler) ClearForm(w http.ResponseWriter, r *http.Request) {
	s := sheet.New(h.Classifier())
	s.Clear()
	h.render(w, s)
}

func (h *Handler) render(w http.ResponseWriter, s *sheet.Sheet) {
	token, err := h.csrf.GenerateToken()
	if err != nil {
		h.logger.Error("generate csrf token", zap.Error(err))
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Text:      s.Text(),
		CanSort:   s.CanSort(),
		HasResult: s.State() == sheet.HasResult,
		Groups:    s.Result().Groups(),
		CSRFToken: token,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.Error("render page", zap.Error(err))
	}
}
