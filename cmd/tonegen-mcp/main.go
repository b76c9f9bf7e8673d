// Command tonegen-mcp exposes the renderer as a Model Context Protocol tool
// server over stdio, standing on its own rather than embedded in a larger
// HTTP mux: a render is a one-shot call, not a subscription to a live
// session, so stdio transport fits a standalone binary better than an
// HTTP-embedded server would.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cwsl/tonegen/render"
	"github.com/cwsl/tonegen/tone"
)

func main() {
	s := server.NewMCPServer(
		"tonegen",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s)

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("tonegen-mcp: %v", err)
	}
}

func registerTools(s *server.MCPServer) {
	s.AddTool(
		mcp.NewTool("render_tones",
			mcp.WithDescription("Render a tone list to an I/Q sample buffer. Accepts a JSON tone array ([{hz,db,ph,us}, ...]) and a JSON render spec, and returns the rendered bytes base64-encoded plus render stats (samples, microseconds, elapsed time)."),
			mcp.WithString("tones_json",
				mcp.Description("JSON array of tone objects: [{\"hz\":1000,\"db\":0,\"ph\":0,\"us\":10000}]"),
				mcp.Required(),
			),
			mcp.WithString("spec_json",
				mcp.Description("JSON render spec: {\"sample_rate_hz\":2000000,\"sample_format\":\"CS16\",\"frame_size\":4096,...}"),
				mcp.Required(),
			),
		),
		handleRenderTones,
	)

	s.AddTool(
		mcp.NewTool("length_query",
			mcp.WithDescription("Compute the microsecond and sample-count length of a tone list without rendering it, to presize a buffer before calling render_tones."),
			mcp.WithString("tones_json",
				mcp.Description("JSON array of tone objects: [{\"hz\":1000,\"db\":0,\"ph\":0,\"us\":10000}]"),
				mcp.Required(),
			),
			mcp.WithNumber("sample_rate_hz",
				mcp.Description("Sample rate in Hz, used to compute the sample count"),
				mcp.Required(),
			),
		),
		handleLengthQuery,
	)
}

func parseTones(tonesJSON string) (tone.List, error) {
	var tones tone.List
	if err := json.Unmarshal([]byte(tonesJSON), &tones); err != nil {
		return nil, fmt.Errorf("invalid tones_json: %w", err)
	}
	return tones, nil
}

func handleRenderTones(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tonesJSON := request.GetString("tones_json", "")
	specJSON := request.GetString("spec_json", "")

	tones, err := parseTones(tonesJSON)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var spec render.Spec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid spec_json: %v", err)), nil
	}

	buf, stats, err := render.ToBuffer(ctx, spec, tones, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}

	result := map[string]interface{}{
		"render_id":     stats.RenderID.String(),
		"data_base64":   base64.StdEncoding.EncodeToString(buf),
		"total_samples": stats.TotalSamples,
		"total_micros":  stats.TotalMicros,
		"elapsed_ms":    stats.Elapsed.Milliseconds(),
	}
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func handleLengthQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tonesJSON := request.GetString("tones_json", "")
	sampleRate := request.GetFloat("sample_rate_hz", 0)

	tones, err := parseTones(tonesJSON)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	spec := render.Spec{SampleRateHz: sampleRate}
	result := map[string]interface{}{
		"total_micros":  render.LengthMicros(tones),
		"total_samples": render.LengthSamples(spec, tones),
	}
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
