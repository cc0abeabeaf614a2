package http

import (
	"net/http"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// indexOrEnd turns an optional index into an insertion position.
func indexOrEnd(i *int) int {
	if i == nil {
		return funnelkit.End
	}
	return *i
}

// InsertStepRequest adds a step. Index is optional and defaults to the end.
type InsertStepRequest struct {
	Step  domain.Step `json:"step"`
	Index *int        `json:"index,omitempty"`
}

// InsertStep handles the POST /funnels/{id}/steps request.
func (s *Server) InsertStep(w http.ResponseWriter, r *http.Request) {
	var req InsertStepRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.edit(w, r, func(ed *funnelkit.Editor, resp *EditResponse) error {
		step, err := ed.InsertStep(req.Step, indexOrEnd(req.Index))
		resp.Created = step
		return err
	})
}

// UpdateStepRequest changes step fields. Only the fields present are
// applied, and they are applied together: one invalid field rejects the
// whole request.
type UpdateStepRequest = domain.StepPatch

// UpdateStep handles the PATCH /funnels/{id}/steps/{stepID} request.
func (s *Server) UpdateStep(w http.ResponseWriter, r *http.Request) {
	var req UpdateStepRequest
	if !s.decode(w, r, &req) {
		return
	}
	stepID := chi.URLParam(r, "stepID")
	s.edit(w, r, func(ed *funnelkit.Editor, _ *EditResponse) error {
		return ed.UpdateStep(stepID, req)
	})
}

// RemoveStep handles the DELETE /funnels/{id}/steps/{stepID} request.
func (s *Server) RemoveStep(w http.ResponseWriter, r *http.Request) {
	stepID := chi.URLParam(r, "stepID")
	s.edit(w, r, func(ed *funnelkit.Editor, _ *EditResponse) error {
		return ed.RemoveStep(stepID)
	})
}

// MoveRequest moves an item to Index, inside StepID for components.
type MoveRequest struct {
	StepID string `json:"step_id,omitempty"`
	Index  int    `json:"index"`
}

// MoveStep handles the POST /funnels/{id}/steps/{stepID}/move request.
func (s *Server) MoveStep(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !s.decode(w, r, &req) {
		return
	}
	stepID := chi.URLParam(r, "stepID")
	s.edit(w, r, func(ed *funnelkit.Editor, _ *EditResponse) error {
		return ed.MoveStep(stepID, req.Index)
	})
}

// DuplicateStep handles the POST /funnels/{id}/steps/{stepID}/duplicate request.
func (s *Server) DuplicateStep(w http.ResponseWriter, r *http.Request) {
	stepID := chi.URLParam(r, "stepID")
	s.edit(w, r, func(ed *funnelkit.Editor, resp *EditResponse) error {
		step, err := ed.DuplicateStep(stepID)
		resp.Created = step
		return err
	})
}
