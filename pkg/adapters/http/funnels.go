package http

import (
	"net/http"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// ListFunnels handles the GET /funnels request.
func (s *Server) ListFunnels(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"funnels": ids, "open": s.Sessions.Opened()})
}

// GetFunnel handles the GET /funnels/{id} request. Unknown funnels are
// created from the template.
func (s *Server) GetFunnel(w http.ResponseWriter, r *http.Request) {
	var state funnelkit.Snapshot
	err := s.Sessions.Do(r.Context(), chi.URLParam(r, "id"), func(ed *funnelkit.Editor) error {
		state = ed.State()
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// ReplaceFunnel handles the PUT /funnels/{id} request: the body document
// replaces the current one and the history is cleared.
func (s *Server) ReplaceFunnel(w http.ResponseWriter, r *http.Request) {
	var doc domain.Document
	if !s.decode(w, r, &doc) {
		return
	}
	id := chi.URLParam(r, "id")
	if doc.ID == "" {
		doc.ID = id
	}
	if doc.ID != id {
		s.writeError(w, r, domain.Invalid(domain.OpReset, doc.ID, "document id does not match the URL"))
		return
	}
	s.edit(w, r, func(ed *funnelkit.Editor, _ *EditResponse) error {
		return ed.Reset(doc)
	})
}

// DeleteFunnel handles the DELETE /funnels/{id} request.
func (s *Server) DeleteFunnel(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveFunnel handles the POST /funnels/{id}/save request.
func (s *Server) SaveFunnel(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Save(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Undo handles the POST /funnels/{id}/undo request.
func (s *Server) Undo(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, func(ed *funnelkit.Editor, resp *EditResponse) error {
		applied := ed.Undo()
		resp.Applied = &applied
		return nil
	})
}

// Redo handles the POST /funnels/{id}/redo request.
func (s *Server) Redo(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, func(ed *funnelkit.Editor, resp *EditResponse) error {
		applied := ed.Redo()
		resp.Applied = &applied
		return nil
	})
}

// SelectRequest activates a step, or a component and its step.
// An empty component id clears the component selection.
type SelectRequest struct {
	StepID      string `json:"step_id,omitempty"`
	ComponentID string `json:"component_id,omitempty"`
}

// Select handles the POST /funnels/{id}/select request.
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.edit(w, r, func(ed *funnelkit.Editor, _ *EditResponse) error {
		switch {
		case req.ComponentID != "":
			return ed.SelectComponent(req.ComponentID)
		case req.StepID != "":
			return ed.SelectStep(req.StepID)
		default:
			ed.ClearComponentSelection()
			return nil
		}
	})
}

// FieldsResponse describes the properties panel of the selected component.
type FieldsResponse struct {
	Component domain.Component `json:"component"`
	Fields    any              `json:"fields"`
}

// PropertyFields handles the GET /funnels/{id}/fields request.
func (s *Server) PropertyFields(w http.ResponseWriter, r *http.Request) {
	var resp FieldsResponse
	err := s.Sessions.Do(r.Context(), chi.URLParam(r, "id"), func(ed *funnelkit.Editor) error {
		c, fields, err := ed.PropertyFields()
		if err != nil {
			return err
		}
		resp = FieldsResponse{Component: c, Fields: fields}
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}
