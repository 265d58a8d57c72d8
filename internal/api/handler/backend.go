package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/onboarding/internal/adapter"
	"github.com/edvin/onboarding/internal/api/request"
	"github.com/edvin/onboarding/internal/api/response"
	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/store"
)

// Backend serves the record, asset and notification service contract, so
// one instance can act as the HTTP backend of another.
type Backend struct {
	backend adapter.Backend
	store   store.Store
}

func NewBackend(b adapter.Backend, s store.Store) *Backend {
	return &Backend{backend: b, store: s}
}

func (h *Backend) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var in model.CreateRecordInput
	if err := request.Decode(r, &in); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.backend.CreateRecord(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Backend) ListEmployees(w http.ResponseWriter, r *http.Request) {
	p := request.ParsePagination(r)

	employees, hasMore, err := h.store.ListEmployees(r.Context(), p.Limit, p.Cursor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	next := request.NextCursor(employees, hasMore, func(e model.EmployeeRecord) string { return e.ID })
	response.WritePaginated(w, http.StatusOK, employees, next, hasMore)
}

func (h *Backend) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.store.GetEmployee(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, rec)
}

func (h *Backend) AllocateAssets(w http.ResponseWriter, r *http.Request) {
	var in model.AllocateAssetsInput
	if err := request.Decode(r, &in); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.backend.AllocateAssets(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, res)
}

// ListAssets lists allocated assets with their count and total cost,
// optionally restricted by ?employee_id=.
func (h *Backend) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, _, err := h.store.ListAssets(r.Context(), r.URL.Query().Get("employee_id"), 0, "")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var total float64
	for _, a := range assets {
		total += a.Cost
	}
	response.WriteJSON(w, http.StatusOK, response.AssetList{Items: assets, Total: len(assets), TotalCost: total})
}

func (h *Backend) SendWelcome(w http.ResponseWriter, r *http.Request) {
	var in model.NotifyInput
	if err := request.Decode(r, &in); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.backend.SendWelcome(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, res)
}

func (h *Backend) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ns, err := h.store.ListNotifications(r.Context(), r.URL.Query().Get("employee_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, ns)
}

// Health reports the aggregate health of the backing services.
func (h *Backend) Health(w http.ResponseWriter, r *http.Request) {
	report := adapter.Aggregate(h.backend.Health(r.Context()))
	response.WriteJSON(w, http.StatusOK, report)
}

