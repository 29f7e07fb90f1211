package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"grocery-sorter/internal/classifier"
	"grocery-sorter/internal/database"
	"grocery-sorter/internal/middleware"
	"grocery-sorter/internal/models"
	"grocery-sorter/internal/repository"
)

type testServer struct {
	h      *Handler
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(filepath.Join(t.TempDir(), "rules.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rules := repository.NewRuleRepository(db)
	_, err = rules.Seed(ctx, classifier.DefaultTable())
	require.NoError(t, err)

	csrf := middleware.NewCSRFTokenStore(time.Minute, time.Hour)
	t.Cleanup(csrf.Close)

	h, err := New(ctx, rules, csrf, classifier.DefaultCatchAll, zap.NewNop())
	require.NoError(t, err)

	return &testServer{h: h, router: h.Router([]string{"*"})}
}

func (s *testServer) token(t *testing.T) string {
	t.Helper()
	token, err := s.h.csrf.GenerateToken()
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, target, body string, protected bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if protected {
		req.Header.Set(middleware.TokenHeader, s.token(t))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestSortText(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/sort", `{"text": "молоко\nйогурт, сок"}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"Молочные продукты":["молоко","йогурт"],"Напитки":["сок"]}`, strings.TrimSpace(rec.Body.String()))
}

func TestSortText_Empty(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/sort", `{"text": "   "}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{}`, strings.TrimSpace(rec.Body.String()))
}

func TestSortText_Rejections(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/sort", `{"text": "молоко"}`, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/sort", `not json`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCategories(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/categories", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&names))
	assert.Equal(t, classifier.DefaultTable().Names(), names)
}

func TestRules_CreateChangesClassification(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/sort", `{"text": "мыло"}`, true)
	assert.Equal(t, `{"Прочее":["мыло"]}`, strings.TrimSpace(rec.Body.String()))

	rec = s.do(t, http.MethodPost, "/api/rules", `{"category": "Бытовая химия", "keyword": "Мыло"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	var rule models.CategoryRule
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rule))
	assert.NotZero(t, rule.ID)

	rec = s.do(t, http.MethodPost, "/api/sort", `{"text": "мыло, сок"}`, true)
	assert.Equal(t, `{"Бытовая химия":["мыло"],"Напитки":["сок"]}`, strings.TrimSpace(rec.Body.String()))

	rec = s.do(t, http.MethodGet, "/api/categories", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&names))
	assert.Equal(t, append(classifier.DefaultTable().Names(), "Бытовая химия"), names)

	rec = s.do(t, http.MethodGet, "/api/rules?category="+url.QueryEscape("Бытовая химия"), "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var rules []models.CategoryRule
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rules))
	require.Len(t, rules, 1)
	assert.Equal(t, "Мыло", rules[0].Keyword)

	rec = s.do(t, http.MethodDelete, "/api/rules/"+strconv.Itoa(rule.ID), "", true)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/sort", `{"text": "мыло"}`, true)
	assert.Equal(t, `{"Прочее":["мыло"]}`, strings.TrimSpace(rec.Body.String()))
}

func TestRules_Update(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/rules", `{"category": "Хозтовары", "keyword": "гвозди"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	var rule models.CategoryRule
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rule))

	rec = s.do(t, http.MethodPut, "/api/rules/"+strconv.Itoa(rule.ID), `{"category": "Хозтовары", "keyword": "шурупы"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/sort", `{"text": "шурупы, гвозди"}`, true)
	assert.Equal(t, `{"Хозтовары":["шурупы"],"Прочее":["гвозди"]}`, strings.TrimSpace(rec.Body.String()))

	rec = s.do(t, http.MethodPut, "/api/rules/999999", `{"category": "A", "keyword": "a"}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRules_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing category", `{"keyword": "x"}`, http.StatusBadRequest},
		{"missing keyword", `{"category": "A", "keyword": "  "}`, http.StatusBadRequest},
		{"reserved", `{"category": "прочее", "keyword": "x"}`, http.StatusBadRequest},
		{"duplicate", `{"category": "Напитки", "keyword": "сок"}`, http.StatusConflict},
		{"bad json", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/rules", tt.body, true)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := s.do(t, http.MethodDelete, "/api/rules/999999", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func upload(t *testing.T, s *testServer, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	return uploadForm(t, s, filename, content, false)
}

// uploadForm posts a multipart file, carrying the CSRF token either in the
// header or as a form field.
func uploadForm(t *testing.T, s *testServer, filename, content string, tokenInForm bool) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if tokenInForm {
		require.NoError(t, mw.WriteField(middleware.TokenFormField, s.token(t)))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if !tokenInForm {
		req.Header.Set(middleware.TokenHeader, s.token(t))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestImportList(t *testing.T) {
	s := newTestServer(t)

	t.Run("csv", func(t *testing.T) {
		rec := upload(t, s, "list.CSV", "молоко, хлеб\n\"гвозди\"\n,,\n")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Filename string          `json:"filename"`
			Count    int             `json:"count"`
			Result   json.RawMessage `json:"result"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "list.CSV", resp.Filename)
		assert.Equal(t, 3, resp.Count)
		assert.Equal(t, `{"Молочные продукты":["молоко"],"Хлебобулочные изделия":["хлеб"],"Прочее":["гвозди"]}`, string(resp.Result))
	})

	t.Run("text", func(t *testing.T) {
		rec := upload(t, s, "list.txt", "  Яблоко  ,, \n лук")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Result json.RawMessage `json:"result"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, `{"Фрукты":["Яблоко"],"Овощи":["лук"]}`, string(resp.Result))
	})

	t.Run("empty file", func(t *testing.T) {
		rec := upload(t, s, "list.txt", " ,\n")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestImportList_SizeLimit(t *testing.T) {
	s := newTestServer(t)
	s.h.maxBody = 1024
	s.router = s.h.Router([]string{"*"})

	big := strings.Repeat("молоко\n", 200)

	for _, tokenInForm := range []bool{false, true} {
		rec := uploadForm(t, s, "list.txt", big, tokenInForm)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, "token in form: %v", tokenInForm)

		rec = uploadForm(t, s, "list.txt", "молоко, хлеб", tokenInForm)
		assert.Equal(t, http.StatusOK, rec.Code, "token in form: %v", tokenInForm)
	}
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	s := newTestServer(t)
	core, logs := observer.New(zap.ErrorLevel)
	s.h.logger = zap.New(core)

	rec := httptest.NewRecorder()
	s.h.writeJSON(rec, http.StatusOK, map[string]float64{"x": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Header().Get("Content-Type"), "application/json")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "encode response", logs.All()[0].Message)
}

func TestPages(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Результат сортировки появится здесь")
	assert.Contains(t, rec.Body.String(), `id="sort" disabled`)

	form := url.Values{"text": {"молоко, хлеб"}, "csrf_token": {s.token(t)}}
	req := httptest.NewRequest(http.MethodPost, "/sort", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Молочные продукты")
	assert.Contains(t, rec.Body.String(), "Хлебобулочные изделия")
	assert.NotContains(t, rec.Body.String(), "Результат сортировки появится здесь")

	form = url.Values{"text": {"молоко"}, "csrf_token": {s.token(t)}}
	req = httptest.NewRequest(http.MethodPost, "/clear", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Результат сортировки появится здесь")
	assert.NotContains(t, rec.Body.String(), "Молочные продукты")
}

func TestHealthAndCORS(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodOptions, "/api/rules", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
