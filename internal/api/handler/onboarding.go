package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/onboarding/internal/api/request"
	"github.com/edvin/onboarding/internal/api/response"
	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/onboarding"
)

type Onboarding struct {
	svc *onboarding.Service
}

func NewOnboarding(svc *onboarding.Service) *Onboarding {
	return &Onboarding{svc: svc}
}

// Onboard runs one instruction to completion and returns the WorkflowResult.
// A run that could not extract a name and email is a 400 carrying the result.
func (h *Onboarding) Onboard(w http.ResponseWriter, r *http.Request) {
	var req request.Instruction
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Onboard(r.Context(), req.Text, nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.Error == model.ErrMissingRequiredFields {
		status = http.StatusBadRequest
	}
	response.WriteJSON(w, status, result)
}

func (h *Onboarding) Extract(w http.ResponseWriter, r *http.Request) {
	var req request.Instruction
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	fields, err := h.svc.Extract(r.Context(), req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, fields)
}

func (h *Onboarding) ListRuns(w http.ResponseWriter, r *http.Request) {
	p := request.ParsePagination(r)

	runs, hasMore, err := h.svc.Runs(r.Context(), p.Limit, p.Cursor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	next := request.NextCursor(runs, hasMore, func(run model.WorkflowResult) string { return run.WorkflowID })
	response.WritePaginated(w, http.StatusOK, runs, next, hasMore)
}

func (h *Onboarding) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := h.svc.Run(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, run)
}

// Reset clears every record and the run history.
func (h *Onboarding) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
