package dropdowns

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"estateadmin/infrastructure/cache"
)

// Source is the dropdown cache as seen by the JSON endpoints.
type Source interface {
	Read(ctx context.Context) (cache.DropdownData, bool)
	Refresh(ctx context.Context) (cache.DropdownData, error)
	Invalidate(ctx context.Context) error
}

type errorResponse struct {
	Error string `json:"error"`
}

type refreshResponse struct {
	Data   cache.DropdownData `json:"data"`
	Failed []string           `json:"failed"`
}

// DropdownsQueryHandler returns the cached record, or one dataset when
// ?dataset= names it.
func DropdownsQueryHandler(source Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, ok := source.Read(r.Context())
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "dropdown data not loaded"})
			return
		}

		name := strings.TrimSpace(r.URL.Query().Get("dataset"))
		if name == "" {
			writeJSON(w, http.StatusOK, data)
			return
		}
		options, known := data.Options(name)
		if !known {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown dataset " + name})
			return
		}
		writeJSON(w, http.StatusOK, options)
	}
}

// RefreshCommandHandler reloads every dataset. A partial refresh answers 200
// and lists the datasets that kept their previous value.
func RefreshCommandHandler(source Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := source.Refresh(r.Context())
		resp := refreshResponse{Data: data, Failed: []string{}}

		var partial *cache.PartialRefreshError
		switch {
		case err == nil:
		case errors.As(err, &partial):
			slog.Warn("dropdown refresh incomplete", slog.Any("datasets", partial.FailedDatasets()))
			resp.Failed = partial.FailedDatasets()
		default:
			slog.Error("dropdown refresh failed", slog.Any("err", err))
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to refresh dropdown data"})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ClearCommandHandler drops the cached record.
func ClearCommandHandler(source Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := source.Invalidate(r.Context()); err != nil {
			slog.Error("clear dropdown cache failed", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to clear dropdown data"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
