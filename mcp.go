package tutorkb

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/tutorkb/kit"
)

// RegisterMCP registers the knowledge base tools on an MCP server.
func (kb *KB) RegisterMCP(srv *mcp.Server) {
	kb.registerSearchTool(srv)
	kb.registerConceptTool(srv)
	kb.registerTopicTool(srv)
	kb.registerPatternsTool(srv)
	kb.registerErrorTool(srv)
	kb.registerCommandsTool(srv)
	kb.registerStatsTool(srv)
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- search ---

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Results    *Results `json:"results"`
	Confidence float64  `json:"confidence"`
	Formatted  string   `json:"formatted"`
}

func (kb *KB) registerSearchTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "tutorkb_search",
		Description: "Search the Rust knowledge base across concepts and patterns. Returns ranked matches with a confidence score and a Markdown rendering.",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Full-text search query"},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*searchRequest)
		res, err := kb.SearchAll(ctx, r.Query)
		if err != nil {
			return nil, err
		}
		return &searchResponse{
			Results:    res,
			Confidence: res.Confidence(),
			Formatted:  res.Format(),
		}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r searchRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- concept ---

func (kb *KB) registerConceptTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "tutorkb_concept",
		Description: "Get one concept by its slug id (e.g. ownership-move-semantics).",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Concept id"},
		}, []string{"id"}),
	}

	type conceptReq struct {
		ID string `json:"id"`
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*conceptReq)
		c, err := kb.GetConcept(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return map[string]string{"error": "concept not found", "id": r.ID}, nil
		}
		return c, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r conceptReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- topic ---

func (kb *KB) registerTopicTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "tutorkb_topic",
		Description: "List every concept filed under an exact topic (e.g. ownership).",
		InputSchema: inputSchema(map[string]any{
			"topic": map[string]any{"type": "string", "description": "Exact topic name"},
		}, []string{"topic"}),
	}

	type topicReq struct {
		Topic string `json:"topic"`
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*topicReq)
		return kb.ConceptsByTopic(ctx, r.Topic)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r topicReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- patterns ---

func (kb *KB) registerPatternsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "tutorkb_patterns",
		Description: "Find code patterns matching a use case, best match first.",
		InputSchema: inputSchema(map[string]any{
			"use_case": map[string]any{"type": "string", "description": "What the code needs to do"},
			"limit":    map[string]any{"type": "integer", "description": "Max results (default 10)"},
		}, []string{"use_case"}),
	}

	type patternsReq struct {
		UseCase string `json:"use_case"`
		Limit   int    `json:"limit"`
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*patternsReq)
		return kb.FindPatterns(ctx, r.UseCase, r.Limit)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r patternsReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- error ---

func (kb *KB) registerErrorTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "tutorkb_error",
		Description: "Explain a Rust compiler error code (e.g. E0382) with a bad example, a fixed example and fix strategies.",
		InputSchema: inputSchema(map[string]any{
			"code": map[string]any{"type": "string", "description": "Compiler error code"},
		}, []string{"code"}),
	}

	type errorReq struct {
		Code string `json:"code"`
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*errorReq)
		e, err := kb.ExplainError(ctx, r.Code)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return map[string]string{"error": "unknown error code", "code": r.Code}, nil
		}
		return e, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r errorReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- commands ---

func (kb *KB) registerCommandsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "tutorkb_commands",
		Description: "Find toolchain commands by tool and keyword. Omit the keyword to list every command of the tool.",
		InputSchema: inputSchema(map[string]any{
			"tool":    map[string]any{"type": "string", "enum": []any{"cargo", "rustup", "rust"}, "description": "Tool name"},
			"keyword": map[string]any{"type": "string", "description": "Keyword to match in command or description"},
		}, []string{"tool"}),
	}

	type commandsReq struct {
		Tool    string `json:"tool"`
		Keyword string `json:"keyword"`
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*commandsReq)
		if r.Keyword == "" {
			return kb.ToolCommands(ctx, r.Tool)
		}
		return kb.SearchCommands(ctx, r.Tool, r.Keyword)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r commandsReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- stats ---

func (kb *KB) registerStatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "tutorkb_stats",
		Description: "Get knowledge base statistics: counts of concepts, patterns, errors, commands and logged searches.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return kb.Stats(ctx)
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
