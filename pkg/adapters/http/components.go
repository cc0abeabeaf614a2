package http

import (
	"net/http"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// InsertComponentRequest adds a component to a step. ID is optional.
type InsertComponentRequest struct {
	ID         string            `json:"id,omitempty"`
	Kind       domain.Kind       `json:"kind"`
	Properties domain.Properties `json:"properties,omitempty"`
	Index      *int              `json:"index,omitempty"`
}

// InsertComponent handles the POST /funnels/{id}/steps/{stepID}/components request.
func (s *Server) InsertComponent(w http.ResponseWriter, r *http.Request) {
	var req InsertComponentRequest
	if !s.decode(w, r, &req) {
		return
	}
	stepID := chi.URLParam(r, "stepID")
	c := domain.Component{ID: req.ID, Kind: req.Kind, Properties: req.Properties}
	s.edit(w, r, func(ed *funnelkit.Editor, resp *EditResponse) error {
		created, err := ed.InsertComponent(stepID, c, indexOrEnd(req.Index))
		resp.Created = created
		return err
	})
}

// UpdateComponent handles the PATCH /funnels/{id}/components/{componentID}
// request. The body is the property patch.
func (s *Server) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	var patch domain.Properties
	if !s.decode(w, r, &patch) {
		return
	}
	componentID := chi.URLParam(r, "componentID")
	s.edit(w, r, func(ed *funnelkit.Editor, _ *EditResponse) error {
		return ed.UpdateComponent(componentID, patch)
	})
}

// RemoveComponent handles the DELETE /funnels/{id}/components/{componentID} request.
func (s *Server) RemoveComponent(w http.ResponseWriter, r *http.Request) {
	componentID := chi.URLParam(r, "componentID")
	s.edit(w, r, func(ed *funnelkit.Editor, _ *EditResponse) error {
		return ed.RemoveComponent(componentID)
	})
}

// MoveComponent handles the POST /funnels/{id}/components/{componentID}/move request.
func (s *Server) MoveComponent(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !s.decode(w, r, &req) {
		return
	}
	componentID := chi.URLParam(r, "componentID")
	s.edit(w, r, func(ed *funnelkit.Editor, _ *EditResponse) error {
		toStep := req.StepID
		if toStep == "" {
			// Reorder within the owning step.
			_, owner, ok := ed.Document().FindComponent(componentID)
			if !ok {
				return domain.NotFound(domain.OpMoveComponent, componentID)
			}
			toStep = owner
		}
		return ed.MoveComponent(componentID, toStep, req.Index)
	})
}

// DuplicateComponent handles the POST /funnels/{id}/components/{componentID}/duplicate request.
func (s *Server) DuplicateComponent(w http.ResponseWriter, r *http.Request) {
	componentID := chi.URLParam(r, "componentID")
	s.edit(w, r, func(ed *funnelkit.Editor, resp *EditResponse) error {
		created, err := ed.DuplicateComponent(componentID)
		resp.Created = created
		return err
	})
}
