package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type openParams struct {
	Target string `json:"target" jsonschema:"URL or file path to open with the default application"`
}

func (h *handler) openHandler(ctx context.Context, req *mcp.CallToolRequest, params openParams) (*mcp.CallToolResult, any, error) {
	if err := h.opener.Open(params.Target); err != nil {
		h.log.WarnContext(ctx, "open failed", "target", params.Target, "error", err)
		return errorResult(fmt.Sprintf("open failed: %v", err))
	}
	h.log.InfoContext(ctx, "opened", "target", params.Target)
	return textResult(fmt.Sprintf("Opened %s", params.Target))
}
