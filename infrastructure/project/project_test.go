package project

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estateadmin/infrastructure/api"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *Repository {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewRepository(api.NewClient(api.Config{BaseURL: ts.URL, Timeout: 5 * time.Second}))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestList_SendsDefaultSearch(t *testing.T) {
	var got map[string]string
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PaginationPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, `[{"data":[{"project_id":11,"project_name":"Riverside","last_update":null}],"total_row":25}]`)
	})

	result, err := repo.List(context.Background(), 2, 10, "river")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"page_number":  "2",
		"page_size":    "10",
		"search_type":  "",
		"query_search": "river",
	}, got)
	assert.Equal(t, 25, result.TotalRow)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, int64(11), result.Rows[0].ProjectID)
	assert.Nil(t, result.Rows[0].LastUpdate)
}

func TestList_MissingEnvelopeIsEmpty(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})

	result, err := repo.List(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.NotNil(t, result.Rows)
	assert.Zero(t, result.TotalRow)
}

func TestFindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		var got map[string]string
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			writeJSON(w, http.StatusOK, `[{"data":[{"project_id":42,"developer_id":7,"village_id":301,"village_name":"Chbar Ampov"}],"total_row":1}]`)
		})

		result := repo.FindByID(context.Background(), 42)
		require.Equal(t, Found, result.Kind)
		assert.Equal(t, int64(7), result.Project.DeveloperID)
		assert.Equal(t, map[string]string{
			"page_number":  "1",
			"page_size":    "10",
			"search_type":  "project_id",
			"query_search": "42",
		}, got)
	})

	t.Run("empty data is not found", func(t *testing.T) {
		repo := newTestRepository(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, `[{"data":[],"total_row":0}]`)
		})
		result := repo.FindByID(context.Background(), 42)
		assert.Equal(t, NotFound, result.Kind)
		assert.NoError(t, result.Err)
	})

	t.Run("server error is a transport error", func(t *testing.T) {
		repo := newTestRepository(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"message":"db down"}`)
		})
		result := repo.FindByID(context.Background(), 42)
		assert.Equal(t, TransportError, result.Kind)
		require.Error(t, result.Err)
		status, message, ok := api.StatusOf(result.Err)
		require.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "db down", message)
	})
}

func TestUpdate_SendsStringIdentifiers(t *testing.T) {
	var got map[string]any
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, UpdatePath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, `{"message":"ok"}`)
	})

	err := repo.Update(context.Background(), UpdateInput{
		ProjectID:          42,
		DeveloperID:        7,
		VillageID:          "301",
		ProjectName:        "Riverside",
		ProjectDescription: "Phase two",
		IsActive:           false,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"project_id":          "42",
		"developer_id":        "7",
		"village_id":          "301",
		"project_name":        "Riverside",
		"project_description": "Phase two",
		"is_active":           false,
	}, got)
}

func TestUpdate_ConflictCarriesStatusAndMessage(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusConflict, `{"message":"Stale record"}`)
	})

	err := repo.Update(context.Background(), UpdateInput{ProjectID: 42})
	require.Error(t, err)
	status, message, ok := api.StatusOf(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Stale record", message)
}

func TestUpdateInputBody_UsesWireFieldNames(t *testing.T) {
	in := UpdateInput{ProjectID: 42, DeveloperID: 7, VillageID: " 301 ", ProjectName: "Riverside", ProjectDescription: "Phase two", IsActive: true}

	raw, err := json.Marshal(in.Body())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"project_id": "42",
		"developer_id": "7",
		"village_id": "301",
		"project_name": "Riverside",
		"project_description": "Phase two",
		"is_active": true
	}`, string(raw))
}
