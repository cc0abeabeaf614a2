package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/pkg/adapters/memory"
	"github.com/aretw0/funnelkit/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toolResponse struct {
	Result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	} `json:"result"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	n := 0
	mgr := session.NewManager(memory.NewStore(), session.WithEditorOptions(
		funnelkit.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("gen%d", n)
		}),
	))
	return NewServer(mgr)
}

var rpcID int

func rpc(t *testing.T, s *Server, method string, params any) []byte {
	t.Helper()
	rpcID++
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      rpcID,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)
	out, err := json.Marshal(s.MCPServer().HandleMessage(context.Background(), msg))
	require.NoError(t, err)
	return out
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) (string, bool) {
	t.Helper()
	var resp toolResponse
	require.NoError(t, json.Unmarshal(rpc(t, s, "tools/call", map[string]any{"name": name, "arguments": args}), &resp))
	require.NotEmpty(t, resp.Result.Content, "tool %s returned no content", name)
	return resp.Result.Content[0].Text, resp.Result.IsError
}

func callEdit(t *testing.T, s *Server, name string, args map[string]any) EditResult {
	t.Helper()
	text, isErr := callTool(t, s, name, args)
	require.False(t, isErr, text)
	var res EditResult
	require.NoError(t, json.Unmarshal([]byte(text), &res))
	return res
}

func TestTools_EditSession(t *testing.T) {
	s := newTestServer(t)

	res := callEdit(t, s, "get_funnel", map[string]any{"funnel_id": "quiz"})
	assert.Equal(t, "quiz", res.State.Document.ID)
	assert.False(t, res.State.CanUndo)

	res = callEdit(t, s, "insert_component", map[string]any{
		"funnel_id":  "quiz",
		"step_id":    "intro",
		"kind":       "paragraph",
		"properties": map[string]any{"text": "Only 2 minutes"},
		"index":      0,
	})
	first := res.State.Document.Steps[0].Components[0]
	assert.Equal(t, "gen1", first.ID)
	assert.Equal(t, "Only 2 minutes", first.Properties["text"])

	res = callEdit(t, s, "update_component", map[string]any{
		"funnel_id":    "quiz",
		"component_id": "gen1",
		"patch":        `{"align":"right"}`,
	})
	assert.Equal(t, "right", res.State.Document.Steps[0].Components[0].Properties["align"])

	res = callEdit(t, s, "move_component", map[string]any{
		"funnel_id": "quiz", "component_id": "gen1", "step_id": "q1", "index": 0,
	})
	assert.Equal(t, "gen1", res.State.Document.Steps[1].Components[0].ID)

	res = callEdit(t, s, "duplicate_component", map[string]any{"funnel_id": "quiz", "component_id": "gen1"})
	assert.Equal(t, "gen2", res.State.Document.Steps[1].Components[1].ID)

	res = callEdit(t, s, "remove_component", map[string]any{"funnel_id": "quiz", "component_id": "gen2"})
	assert.False(t, res.State.Document.HasID("gen2"))

	res = callEdit(t, s, "insert_step", map[string]any{"funnel_id": "quiz", "kind": "transition", "title": "Almost", "index": 1})
	assert.Equal(t, "Almost", res.State.Document.Steps[1].Title)

	res = callEdit(t, s, "rename_step", map[string]any{"funnel_id": "quiz", "step_id": "gen3", "title": "Nearly"})
	assert.Equal(t, "Nearly", res.State.Document.Steps[1].Title)

	res = callEdit(t, s, "move_step", map[string]any{"funnel_id": "quiz", "step_id": "gen3", "index": 0})
	assert.Equal(t, "gen3", res.State.Document.Steps[0].ID)

	res = callEdit(t, s, "remove_step", map[string]any{"funnel_id": "quiz", "step_id": "gen3"})
	assert.Equal(t, "intro", res.State.Document.Steps[0].ID)

	res = callEdit(t, s, "undo", map[string]any{"funnel_id": "quiz"})
	require.NotNil(t, res.Applied)
	assert.True(t, *res.Applied)
	assert.Equal(t, "gen3", res.State.Document.Steps[0].ID)

	res = callEdit(t, s, "redo", map[string]any{"funnel_id": "quiz"})
	assert.True(t, *res.Applied)
	res = callEdit(t, s, "redo", map[string]any{"funnel_id": "quiz"})
	assert.False(t, *res.Applied)

	text, isErr := callTool(t, s, "save_funnel", map[string]any{"funnel_id": "quiz"})
	assert.False(t, isErr)
	assert.Equal(t, "saved quiz", text)
}

func TestTools_Errors(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name string
		args map[string]any
	}{
		{"remove_component", map[string]any{"funnel_id": "quiz", "component_id": "nope"}},
		{"update_component", map[string]any{"funnel_id": "quiz", "component_id": "intro-2", "patch": map[string]any{"level": 99}}},
		{"update_component", map[string]any{"funnel_id": "quiz", "component_id": "intro-2", "patch": "not json"}},
		{"insert_component", map[string]any{"funnel_id": "quiz", "step_id": "intro", "kind": "marquee"}},
		{"move_step", map[string]any{"funnel_id": "quiz", "step_id": "intro"}},
		{"get_funnel", map[string]any{}},
		{"save_funnel", map[string]any{"funnel_id": "never-opened"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, isErr := callTool(t, s, tc.name, tc.args)
			assert.True(t, isErr, text)
		})
	}

	res := callEdit(t, s, "get_funnel", map[string]any{"funnel_id": "quiz"})
	assert.False(t, res.State.CanUndo, "rejected edits are not recorded")
}

func TestTools_ListKindsAndScore(t *testing.T) {
	s := newTestServer(t)

	text, isErr := callTool(t, s, "list_kinds", nil)
	require.False(t, isErr)
	var kinds []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &kinds))
	assert.Len(t, kinds, 14)

	callEdit(t, s, "get_funnel", map[string]any{"funnel_id": "quiz"})
	text, isErr = callTool(t, s, "score", map[string]any{
		"funnel_id": "quiz",
		"answers":   `[{"question_id":"q1-2","option_ids":["q1-dramatic"]}]`,
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, `"style":"dramatic"`)
	assert.Contains(t, text, `"primary":true`)

	_, isErr = callTool(t, s, "score", map[string]any{"funnel_id": "quiz", "answers": "[}"})
	assert.True(t, isErr)
}

func TestResource_Funnel(t *testing.T) {
	s := newTestServer(t)

	var resp struct {
		Result struct {
			Contents []struct {
				URI      string `json:"uri"`
				MIMEType string `json:"mimeType"`
				Text     string `json:"text"`
			} `json:"contents"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rpc(t, s, "resources/read", map[string]any{"uri": "funnel://quiz"}), &resp))
	require.Len(t, resp.Result.Contents, 1)
	assert.Equal(t, "funnel://quiz", resp.Result.Contents[0].URI)
	assert.Equal(t, "application/json", resp.Result.Contents[0].MIMEType)
	assert.Contains(t, resp.Result.Contents[0].Text, `"id":"quiz"`)
}
