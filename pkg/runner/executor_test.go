package runner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apiforge/apiforge/pkg/models"
)

func TestExecuteSingle_PassingCase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/42", r.URL.Path)
		assert.Equal(t, "ada", r.URL.Query().Get("name"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 42, "name": "ada"})
	}))
	defer srv.Close()

	r := New(zap.NewNop(), srv.URL)
	res := r.ExecuteSingle(context.Background(), models.TestCase{
		ID:          "TC_0001",
		Endpoint:    "/users/{id}",
		Method:      http.MethodGet,
		PathParams:  map[string]any{"id": 42},
		QueryParams: map[string]any{"name": "ada"},

		ExpectedStatus: 200,
		Assertions: []models.Assertion{
			{Type: models.AssertEquals, Path: "name", Expected: "ada"},
		},
	})

	assert.Equal(t, models.StatusPassed, res.Status)
	assert.Equal(t, 200, res.ResponseStatus)
	// the synthesized status check plus the declared assertion
	require.Len(t, res.Assertions, 2)
	assert.Equal(t, models.AssertStatusCode, res.Assertions[0].Type)
	assert.Greater(t, res.ResponseTimeMS, 0.0)
}

func TestExecuteSingle_DeclaredStatusAssertionGoverns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"too large"}`))
	}))
	defer srv.Close()

	r := New(zap.NewNop(), srv.URL)
	res := r.ExecuteSingle(context.Background(), models.TestCase{
		ID:             "TC_0001",
		Endpoint:       "/upload",
		Method:         http.MethodPost,
		RequestBody:    map[string]any{"data": "x"},
		ExpectedStatus: 413,
		Assertions: []models.Assertion{
			{Type: models.AssertStatusCodeIn, Expected: []any{413, 400}},
		},
	})

	// 400 is acceptable because the declared status_code_in assertion
	// replaces the synthesized expected-status check.
	assert.Equal(t, models.StatusPassed, res.Status)
	require.Len(t, res.Assertions, 1)
}

func TestExecuteSingle_DefaultsExpectedStatusTo200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"missing"}`))
	}))
	defer srv.Close()

	r := New(zap.NewNop(), srv.URL)
	res := r.ExecuteSingle(context.Background(), models.TestCase{
		ID:       "TC_0001",
		Endpoint: "/things",
		Method:   http.MethodGet,
	})

	// A hand-written case with no expected status is held to 200.
	assert.Equal(t, models.StatusFailed, res.Status)
	require.Len(t, res.Assertions, 1)
	assert.Equal(t, models.AssertStatusCode, res.Assertions[0].Type)
	assert.Equal(t, 200, res.Assertions[0].Expected)
}

func TestExecuteSingle_FailedAssertion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	r := New(zap.NewNop(), srv.URL)
	res := r.ExecuteSingle(context.Background(), models.TestCase{
		ID:             "TC_0001",
		Endpoint:       "/things",
		Method:         http.MethodGet,
		ExpectedStatus: 200,
	})

	assert.Equal(t, models.StatusFailed, res.Status)
	require.Len(t, res.Assertions, 1)
	assert.False(t, res.Assertions[0].Passed)
	assert.NotEmpty(t, res.Assertions[0].Message)
}

func TestExecuteSingle_TransportErrorYieldsErrorVerdict(t *testing.T) {
	r := New(zap.NewNop(), "http://127.0.0.1:1")
	res := r.ExecuteSingle(context.Background(), models.TestCase{
		ID:             "TC_0001",
		Endpoint:       "/things",
		Method:         http.MethodGet,
		ExpectedStatus: 200,
	})

	assert.Equal(t, models.StatusError, res.Status)
	assert.Equal(t, 0, res.ResponseStatus)
	assert.Empty(t, res.Assertions)
	assert.NotEmpty(t, res.ErrorMessage)
}

func TestExecuteSingle_HeadersMergeOverDefaults(t *testing.T) {
	var gotContentType, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := New(zap.NewNop(), srv.URL)
	res := r.ExecuteSingle(context.Background(), models.TestCase{
		ID:       "TC_0001",
		Endpoint: "/things",
		Method:   http.MethodPost,
		Headers: map[string]string{
			"Content-Type":  "text/plain",
			"Authorization": "Bearer tok",
		},
		RequestBody:    map[string]any{"a": 1},
		ExpectedStatus: 200,
	})

	assert.Equal(t, models.StatusPassed, res.Status)
	assert.Equal(t, "text/plain", gotContentType)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestExecuteSingle_ConfiguredDefaultHeaders(t *testing.T) {
	var gotKey, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := New(zap.NewNop(), srv.URL,
		WithDefaultHeaders(map[string]string{"X-Api-Key": "k1"}))
	res := r.ExecuteSingle(context.Background(), models.TestCase{
		ID:             "TC_0001",
		Endpoint:       "/things",
		Method:         http.MethodGet,
		ExpectedStatus: 200,
	})

	assert.Equal(t, models.StatusPassed, res.Status)
	assert.Equal(t, "k1", gotKey)
	// built-in defaults survive alongside the configured ones
	assert.Equal(t, "application/json", gotAccept)

	// a case-level header still wins over a configured default
	res = r.ExecuteSingle(context.Background(), models.TestCase{
		ID:             "TC_0002",
		Endpoint:       "/things",
		Method:         http.MethodGet,
		Headers:        map[string]string{"X-Api-Key": "k2"},
		ExpectedStatus: 200,
	})
	assert.Equal(t, models.StatusPassed, res.Status)
	assert.Equal(t, "k2", gotKey)
}

func TestExecuteSingle_VariableChaining(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "secret-token"})
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "ada"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := New(zap.NewNop(), srv.URL)

	login := r.ExecuteSingle(context.Background(), models.TestCase{
		ID:             "TC_0001",
		Endpoint:       "/login",
		Method:         http.MethodPost,
		RequestBody:    map[string]any{"username": "ada", "password": "pw"},
		ExpectedStatus: 200,
		Extract:        map[string]string{"token": "token"},
	})
	require.Equal(t, models.StatusPassed, login.Status)

	profile := r.ExecuteSingle(context.Background(), models.TestCase{
		ID:             "TC_0002",
		Endpoint:       "/profile",
		Method:         http.MethodGet,
		Headers:        map[string]string{"Authorization": "Bearer {token}"},
		ExpectedStatus: 200,
	})
	assert.Equal(t, models.StatusPassed, profile.Status)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestExecuteSingle_ExtractionRunsOnFailedVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"request_id": "r-1"})
	}))
	defer srv.Close()

	r := New(zap.NewNop(), srv.URL)
	res := r.ExecuteSingle(context.Background(), models.TestCase{
		ID:             "TC_0001",
		Endpoint:       "/things",
		Method:         http.MethodGet,
		ExpectedStatus: 200,
		Extract:        map[string]string{"rid": "request_id"},
	})

	assert.Equal(t, models.StatusFailed, res.Status)
	v, ok := r.Vars().Get("rid")
	require.True(t, ok)
	assert.Equal(t, "r-1", v)
}

func TestExecuteSingle_PresetVariables(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tenants/acme", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := New(zap.NewNop(), srv.URL, WithVariables(map[string]any{"tenant": "acme"}))
	res := r.ExecuteSingle(context.Background(), models.TestCase{
		ID:             "TC_0001",
		Endpoint:       "/tenants/{tenant}",
		Method:         http.MethodGet,
		ExpectedStatus: 200,
	})
	assert.Equal(t, models.StatusPassed, res.Status)
}
