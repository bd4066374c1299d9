package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apiforge/apiforge/config"
	"github.com/apiforge/apiforge/pkg/models"
	"github.com/apiforge/apiforge/pkg/storage"
)

const inlineSpec = `
openapi: 3.0.3
info:
  title: Demo
  version: 1.0.0
paths:
  /ping:
    get:
      summary: ping
      tags: [health]
      responses:
        "200":
          description: ok
`

func newTestRouter(t *testing.T) (chi.Router, *storage.Store) {
	t.Helper()
	store, err := storage.New(zap.NewNop(), t.TempDir())
	require.NoError(t, err)

	r := chi.NewRouter()
	Register(r, zap.NewNop(), config.New(), store)
	return r, store
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestGenerate_InlineSpec(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/generate", map[string]any{
		"spec": inlineSpec,
		"seed": 1,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		ID     string                  `json:"id"`
		Suites *models.GeneratedSuites `json:"suites"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	require.NotNil(t, resp.Suites)
	assert.Positive(t, resp.Suites.Summary.TotalCases)
}

func TestGenerate_MissingSpec(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/generate", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRun_StoredCasesAgainstLiveServer(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	}))
	defer target.Close()

	router, store := newTestRouter(t)
	casesID, err := store.SaveCases(&models.GeneratedSuites{
		Suites: []models.CaseSuite{{
			SuiteName: "health",
			TestCases: []models.TestCase{{
				ID: "TC_0001", Endpoint: "/ping", Method: http.MethodGet, ExpectedStatus: 200,
			}},
		}},
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/run", map[string]any{
		"cases_id": casesID,
		"base_url": target.URL,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID      string                `json:"id"`
		Results []*models.SuiteResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.Results[0].Passed)

	// stored results are retrievable afterwards
	got := doJSON(t, router, http.MethodGet, "/api/results/"+resp.ID, nil)
	assert.Equal(t, http.StatusOK, got.Code)

	list := doJSON(t, router, http.MethodGet, "/api/results", nil)
	assert.Equal(t, http.StatusOK, list.Code)
	var entries []storage.Entry
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)
}

func TestRun_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/run", map[string]any{
		"cases_id": "cases_missing",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/run", map[string]any{
		"cases_id": "cases_missing",
		"base_url": "http://localhost:1",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetResult_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/api/results/result_nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
