package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/onboarding/internal/adapter"
	"github.com/edvin/onboarding/internal/catalog"
	"github.com/edvin/onboarding/internal/extract"
	"github.com/edvin/onboarding/internal/onboarding"
	"github.com/edvin/onboarding/internal/store"
)

const janeInstruction = "onboard employee Jane Doe, jane.doe@example.com as developer in engineering"

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// newRequestRaw creates a new HTTP request with a raw string body.
func newRequestRaw(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorResponse parses the JSON error response body into a map.
func decodeErrorResponse(rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

// simulatedStack wires a service over an in-memory store and the simulated backend.
type simulatedStack struct {
	store   *store.MemoryStore
	backend *adapter.Simulated
	service *onboarding.Service
}

func newSimulatedStack() *simulatedStack {
	s := store.NewMemoryStore()
	b := adapter.NewSimulated(s, catalog.Default())
	ex := extract.NewRegex()
	runner := onboarding.NewRunner(ex, adapter.New(b, zerolog.Nop()), s, zerolog.Nop())
	return &simulatedStack{
		store:   s,
		backend: b,
		service: onboarding.NewService(runner, ex, s, onboarding.NewHub(), zerolog.Nop()),
	}
}
