package mcp

import (
	"context"
	"encoding/json"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/scoring"
	"github.com/mark3labs/mcp-go/mcp"
)

func funnelArg() mcp.ToolOption {
	return mcp.WithString("funnel_id", mcp.Required(), mcp.Description("Funnel document ID"))
}

func indexArg(what string) mcp.ToolOption {
	return mcp.WithNumber("index", mcp.Description("Target position of the "+what+" (omit to append)"))
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_funnel",
		mcp.WithDescription("Get the current document, selection and undo state of a funnel. Unknown funnels are created from the starter quiz."),
		funnelArg(),
		mcp.WithOutputSchema[EditResult](),
	), s.editTool(func(ed *funnelkit.Editor, _ mcp.CallToolRequest) (any, error) {
		return nil, nil
	}))

	s.mcpServer.AddTool(mcp.NewTool("list_kinds",
		mcp.WithDescription("List the component kinds and their editable properties."),
	), s.handleListKinds)

	s.mcpServer.AddTool(mcp.NewTool("insert_component",
		mcp.WithDescription("Insert a component into a step. Omitted properties get the kind defaults."),
		funnelArg(),
		mcp.WithString("step_id", mcp.Required(), mcp.Description("Step receiving the component")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Component kind, see list_kinds")),
		mcp.WithObject("properties", mcp.Description("Property overrides")),
		indexArg("component"),
		mcp.WithOutputSchema[EditResult](),
	), s.editTool(func(ed *funnelkit.Editor, request mcp.CallToolRequest) (any, error) {
		stepID, err := request.RequireString("step_id")
		if err != nil {
			return nil, err
		}
		kind, err := request.RequireString("kind")
		if err != nil {
			return nil, err
		}
		props, err := objectArg(request, "properties")
		if err != nil {
			return nil, err
		}
		return ed.InsertComponent(stepID, domain.Component{Kind: domain.Kind(kind), Properties: props},
			request.GetInt("index", funnelkit.End))
	}))

	s.mcpServer.AddTool(mcp.NewTool("update_component",
		mcp.WithDescription("Merge a property patch into a component."),
		funnelArg(),
		mcp.WithString("component_id", mcp.Required(), mcp.Description("Component to update")),
		mcp.WithObject("patch", mcp.Required(), mcp.Description("Properties to set")),
		mcp.WithOutputSchema[EditResult](),
	), s.editTool(func(ed *funnelkit.Editor, request mcp.CallToolRequest) (any, error) {
		id, err := request.RequireString("component_id")
		if err != nil {
			return nil, err
		}
		patch, err := objectArg(request, "patch")
		if err != nil {
			return nil, err
		}
		return nil, ed.UpdateComponent(id, patch)
	}))

	s.mcpServer.AddTool(mcp.NewTool("remove_component",
		mcp.WithDescription("Remove a component."),
		funnelArg(),
		mcp.WithString("component_id", mcp.Required(), mcp.Description("Component to remove")),
		mcp.WithOutputSchema[EditResult](),
	), s.editTool(func(ed *funnelkit.Editor, request mcp.CallToolRequest) (any, error) {
		id, err := request.RequireString("component_id")
		if err != nil {
			return nil, err
		}
		return nil, ed.RemoveComponent(id)
	}))

	s.mcpServer.AddTool(mcp.NewTool("move_component",
		mcp.WithDescription("Move a component to a position, in the same or another step."),
		funnelArg(),
		mcp.WithString("component_id", mcp.Required(), mcp.Description("Component to move")),
		mcp.WithString("step_id", mcp.Required(), mcp.Description("Destination step")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Destination position")),
		mcp.WithOutputSchema[EditResult](),
	), s.editTool(func(ed *funnelkit.Editor, request mcp.CallToolRequest) (any, error) {
		id, err := request.RequireString("component_id")
		if err != nil {
			return nil, err
		}
		stepID, err := request.RequireString("step_id")
		if err != nil {
			return nil, err
		}
		index, err := request.RequireInt("index")
		if err != nil {
			return nil, err
		}
		return nil, ed.MoveComponent(id, stepID, index)
	}))

	s.mcpServer.AddTool(mcp.NewTool("duplicate_component",
		mcp.WithDescription("Copy a component right after itself."),
		funnelArg(),
		mcp.WithString("component_id", mcp.Required(), mcp.Description("Component to copy")),
		mcp.WithOutputSchema[EditResult](),
	), s.editTool(func(ed *funnelkit.Editor, request mcp.CallToolRequest) (any, error) {
		id, err := request.RequireString("component_id")
		if err != nil {
			return nil, err
		}
		return ed.DuplicateComponent(id)
	}))

	s.mcpServer.AddTool(mcp.NewTool("insert_step",
		mcp.WithDescription("Insert an empty step."),
		funnelArg(),
		mcp.WithString("kind", mcp.Description("Step kind (default question)"),
			mcp.Enum("intro", "question", "strategic-question", "transition", "loading", "lead-capture", "result", "offer")),
		mcp.WithString("title", mcp.Description("Step title")),
		indexArg("step"),
		mcp.WithOutputSchema[EditResult](),
	), s.editTool(func(ed *funnelkit.Editor, request mcp.CallToolRequest) (any, error) {
		step := domain.Step{
			Kind:  domain.StepKind(request.GetString("kind", string(domain.StepQuestion))),
			Title: request.GetString("title", ""),
		}
		return ed.InsertStep(step, request.GetInt("index", funnelkit.End))
	}))

	s.mcpServer.AddTool(mcp.NewTool("remove_step",
		mcp.WithDescription("Remove a step and its components. The last step cannot be removed."),
		funnelArg(),
		mcp.WithString("step_id", mcp.Required(), mcp.Description("Step to remove")),
		mcp.WithOutputSchema[EditResult](),
	), s.editTool(func(ed *funnelkit.Editor, request mcp.CallToolRequest) (any, error) {
		id, err := request.RequireString("step_id")
		if err != nil {
			return nil, err
		}
		return nil, ed.RemoveStep(id)
	}))

	s.mcpServer.AddTool(mcp.NewTool("move_step",
		mcp.WithDescription("Move a step to a position."),
		funnelArg(),
		mcp.WithString("step_id", mcp.Required(), mcp.Description("Step to move")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Destination position")),
		mcp.WithOutputSchema[EditResult](),
	), s.editTool(func(ed *funnelkit.Editor, request mcp.CallToolRequest) (any, error) {
		id, err := request.RequireString("step_id")
		if err != nil {
			return nil, err
		}
		index, err := request.RequireInt("index")
		if err != nil {
			return nil, err
		}
		return nil, ed.MoveStep(id, index)
	}))

	s.mcpServer.AddTool(mcp.NewTool("rename_step",
		mcp.WithDescription("Set the title of a step."),
		funnelArg(),
		mcp.WithString("step_id", mcp.Required(), mcp.Description("Step to rename")),
		mcp.WithString("title", mcp.Required(), mcp.Description("New title")),
		mcp.WithOutputSchema[EditResult](),
	), s.editTool(func(ed *funnelkit.Editor, request mcp.CallToolRequest) (any, error) {
		id, err := request.RequireString("step_id")
		if err != nil {
			return nil, err
		}
		title, err := request.RequireString("title")
		if err != nil {
			return nil, err
		}
		return nil, ed.RenameStep(id, title)
	}))

	s.mcpServer.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last edit."),
		funnelArg(),
		mcp.WithOutputSchema[EditResult](),
	), s.editTool(func(ed *funnelkit.Editor, _ mcp.CallToolRequest) (any, error) {
		return ed.Undo(), nil
	}))

	s.mcpServer.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone edit."),
		funnelArg(),
		mcp.WithOutputSchema[EditResult](),
	), s.editTool(func(ed *funnelkit.Editor, _ mcp.CallToolRequest) (any, error) {
		return ed.Redo(), nil
	}))

	s.mcpServer.AddTool(mcp.NewTool("save_funnel",
		mcp.WithDescription("Persist the current document of a funnel."),
		funnelArg(),
	), s.handleSave)

	s.mcpServer.AddTool(mcp.NewTool("score",
		mcp.WithDescription("Score participant answers against the saved version of a funnel."),
		funnelArg(),
		mcp.WithString("answers", mcp.Required(),
			mcp.Description(`JSON array of answers: [{"question_id":"<choice group id>","option_ids":["..."]}]`)),
	), s.handleScore)
}

func (s *Server) handleListKinds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type kindInfo struct {
		Kind     domain.Kind `json:"kind"`
		Label    string      `json:"label"`
		Category string      `json:"category"`
		Fields   any         `json:"fields"`
	}
	var kinds []kindInfo
	for _, spec := range s.kinds.Kinds() {
		kinds = append(kinds, kindInfo{Kind: spec.Kind, Label: spec.Label, Category: spec.Category, Fields: spec.Describe()})
	}
	jsonBytes, err := json.Marshal(kinds)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("funnel_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.sessions.Save(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("saved " + id), nil
}

func (s *Server) handleScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("funnel_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := request.RequireString("answers")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var answers []scoring.Answer
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return mcp.NewToolResultError("answers must be a JSON array: " + err.Error()), nil
	}

	doc, err := s.sessions.Store().Load(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	quiz, err := scoring.FromDocument(doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := scoring.Score(quiz, answers)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	jsonBytes, err := json.Marshal(results)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
