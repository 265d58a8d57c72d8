package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/onboarding/internal/catalog"
	"github.com/edvin/onboarding/internal/model"
)

func nopLogger() zerolog.Logger { return zerolog.Nop() }

func newTestHTTPBackend(url string, retries int) *HTTPBackend {
	b := NewHTTPBackend(HTTPConfig{
		RecordsURL:       url,
		AssetsURL:        url,
		NotificationsURL: url,
		APIKey:           "secret",
		Timeout:          2 * time.Second,
		MaxRetries:       retries,
	}, catalog.Default())
	b.backoff = time.Millisecond
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestHTTPBackend_CreateRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/employees", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var in model.CreateRecordInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusCreated, model.EmployeeRecord{ID: "EMP100", Name: in.Name, Email: in.Email, Status: model.StatusActive})
	}))
	defer srv.Close()

	rec, err := newTestHTTPBackend(srv.URL, 0).CreateRecord(context.Background(), janeInput)
	require.NoError(t, err)
	assert.Equal(t, "EMP100", rec.ID)
	assert.Equal(t, "Jane Doe", rec.Name)
}

func TestHTTPBackend_StatusErrorText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "records database unavailable", http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := New(newTestHTTPBackend(srv.URL, 0), nopLogger())
	res := a.CreateRecord(context.Background(), janeInput)
	assert.False(t, res.Success)
	assert.Equal(t, "HTTP 500: records database unavailable", res.Error)
}

func TestHTTPBackend_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, model.EmployeeRecord{ID: "EMP007"})
	}))
	defer srv.Close()

	rec, err := newTestHTTPBackend(srv.URL, 2).CreateRecord(context.Background(), janeInput)
	require.NoError(t, err)
	assert.Equal(t, "EMP007", rec.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPBackend_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "duplicate email", http.StatusConflict)
	}))
	defer srv.Close()

	_, err := newTestHTTPBackend(srv.URL, 3).CreateRecord(context.Background(), janeInput)
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPBackend_AllocateAssets_Partial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in model.AllocateAssetsInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Len(t, in.AssetTypes, 1)
		if in.AssetTypes[0] == "ID_card" {
			http.Error(w, "out of stock", http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, http.StatusOK, model.AllocationResult{
			EmployeeID: in.EmployeeID,
			Allocated:  []model.Asset{{ID: "AST-" + in.AssetTypes[0], Type: in.AssetTypes[0], Cost: 10}},
			TotalCost:  10,
		})
	}))
	defer srv.Close()

	res, err := newTestHTTPBackend(srv.URL, 0).AllocateAssets(context.Background(), model.AllocateAssetsInput{
		EmployeeID: "EMP001",
		AssetTypes: []string{"laptop", "ID_card", "access_card"},
	})
	require.NoError(t, err)
	assert.Len(t, res.Allocated, 2)
	assert.Equal(t, []string{"ID_card"}, res.Failed)
	assert.InDelta(t, 20.0, res.TotalCost, 0.001)
}

func TestHTTPBackend_AllocateAssets_AllFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestHTTPBackend(srv.URL, 0).AllocateAssets(context.Background(), model.AllocateAssetsInput{
		EmployeeID: "EMP001",
		AssetTypes: []string{"laptop"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no assets allocated")
	assert.Contains(t, err.Error(), "laptop: HTTP 400: no")
}

func TestHTTPBackend_Health(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}))
	defer healthy.Close()
	sick := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer sick.Close()

	b := NewHTTPBackend(HTTPConfig{
		RecordsURL:       healthy.URL,
		AssetsURL:        sick.URL,
		NotificationsURL: healthy.URL,
	}, catalog.Default())

	got := b.Health(context.Background())
	assert.Equal(t, map[string]string{
		model.ServiceRecords:       model.HealthHealthy,
		model.ServiceAssets:        model.HealthUnhealthy,
		model.ServiceNotifications: model.HealthHealthy,
	}, got)
}
