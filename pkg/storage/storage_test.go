package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apiforge/apiforge/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(zap.NewNop(), t.TempDir())
	require.NoError(t, err)
	return s
}

func sampleSuites() *models.GeneratedSuites {
	return &models.GeneratedSuites{
		APIName:    "Demo",
		APIVersion: "1.0.0",
		Suites: []models.CaseSuite{{
			SuiteName: "users",
			TestCases: []models.TestCase{{
				ID: "TC_0001", Endpoint: "/users", Method: "GET", ExpectedStatus: 200,
			}},
		}},
	}
}

func sampleResults() []*models.SuiteResult {
	return []*models.SuiteResult{{
		SuiteName: "users",
		Total:     1,
		Passed:    1,
		PassRate:  100,
		Results: []models.CaseResult{{
			CaseID: "TC_0001", Status: models.StatusPassed, ResponseStatus: 200,
		}},
	}}
}

func TestSaveAndGetCases(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SaveCases(sampleSuites())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "cases_"))

	got, err := s.GetCases(id)
	require.NoError(t, err)
	assert.Equal(t, "Demo", got.APIName)
	require.Len(t, got.Suites, 1)
	assert.Equal(t, "TC_0001", got.Suites[0].TestCases[0].ID)
}

func TestSaveAndGetResults(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SaveResults(sampleResults())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "result_"))

	got, err := s.GetResults(id)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, float64(100), got[0].PassRate)
}

func TestGet_KindMismatch(t *testing.T) {
	s := newTestStore(t)

	casesID, err := s.SaveCases(sampleSuites())
	require.NoError(t, err)

	_, err = s.GetResults(casesID)
	assert.Error(t, err)
	_, err = s.GetCases("result_missing")
	assert.Error(t, err)
}

func TestList_NewestFirst(t *testing.T) {
	s := newTestStore(t)

	first, err := s.SaveCases(sampleSuites())
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := s.SaveResults(sampleResults())
	require.NoError(t, err)

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second, entries[0].ID)
	assert.Equal(t, first, entries[1].ID)
	assert.Equal(t, KindResults, entries[0].Kind)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SaveCases(sampleSuites())
	require.NoError(t, err)
	require.NoError(t, s.Delete(id))

	_, err = s.GetCases(id)
	assert.Error(t, err)
	assert.Error(t, s.Delete(id))
}

func TestRejectsPathTraversalIDs(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetCases("../etc/passwd")
	assert.Error(t, err)
	assert.Error(t, s.Delete("a/b"))
}
