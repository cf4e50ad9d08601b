// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes wavemark tools for LLM integration.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/wavemark/internal/apperr"
	"github.com/starford/wavemark/internal/session"
	"github.com/starford/wavemark/internal/trackservice"
)

// TranscriptFormatURI is the resource URI of the transcription contract.
const TranscriptFormatURI = "wavemark://transcript-format"

// Server wraps the MCP server with wavemark tools.
type Server struct {
	mcp    *server.MCPServer
	sess   *session.Session
	tracks *trackservice.Service
}

// New creates a new MCP server with all wavemark tools registered.
func New(sess *session.Session, tracks *trackservice.Service) *Server {
	s := &Server{sess: sess, tracks: tracks}

	s.mcp = server.NewMCPServer(
		"Wavemark",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_audio",
		mcp.WithDescription("List audio files in the library with cached durations."),
	), s.listAudio)

	s.mcp.AddTool(mcp.NewTool("load_audio",
		mcp.WithDescription("Load an audio file from the library. Clears all markers, selection and zoom."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the audio file (e.g. interviews/take1.mp3)")),
	), s.loadAudio)

	s.mcp.AddTool(mcp.NewTool("import_audio",
		mcp.WithDescription("Download an audio file from an http(s) or base64 data URI into the library."),
		mcp.WithString("url", mcp.Required(), mcp.Description("http(s) URL or data:audio/...;base64,... URI")),
		mcp.WithString("filename", mcp.Description("Optional target file name; derived from the URL when empty")),
	), s.importAudio)

	s.mcp.AddTool(mcp.NewTool("submit_transcription",
		mcp.WithDescription("Place one evenly spaced marker per word of the transcription, replacing existing markers. "+
			"Read the format first via get_transcript_format or the "+TranscriptFormatURI+" resource."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Transcription text, optionally with YAML frontmatter")),
	), s.submitTranscription)

	s.mcp.AddTool(mcp.NewTool("get_transcript_format",
		mcp.WithDescription("Returns the transcription format accepted by submit_transcription."),
	), s.getTranscriptFormat)

	s.mcp.AddTool(mcp.NewTool("list_markers",
		mcp.WithDescription("List markers of the loaded audio in id order."),
	), s.listMarkers)

	s.mcp.AddTool(mcp.NewTool("nudge_marker",
		mcp.WithDescription("Select a marker and move it one zoom-dependent step."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Marker id")),
		mcp.WithNumber("direction", mcp.Required(), mcp.Description("-1 for earlier, 1 for later")),
	), s.nudgeMarker)

	s.mcp.AddTool(mcp.NewTool("export_markers",
		mcp.WithDescription("Export marker times in milliseconds, ascending, and copy them to the clipboard."),
	), s.exportMarkers)

	// Resource: transcription format contract.
	s.mcp.AddResource(
		mcp.NewResource(TranscriptFormatURI, "Transcript Format",
			mcp.WithResourceDescription("Text format accepted for marker placement."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTranscriptFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// HTTPHandler returns a streamable HTTP transport sharing this server's session.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listAudio(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.tracks.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("no audio files found"), nil
	}
	return jsonResult(items)
}

func (s *Server) loadAudio(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	track, err := s.tracks.Open(ctx, path, s.sess)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(track)
}

func (s *Server) submitTranscription(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, placed, err := s.sess.SubmitTranscription([]byte(text))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.Count() == 0 {
		return mcp.NewToolResultText("no words found; markers unchanged"), nil
	}
	return jsonResult(placed)
}

func (s *Server) listMarkers(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ms, err := s.sess.Markers()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(ms)
}

func (s *Server) nudgeMarker(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir, err := req.RequireInt("direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := s.sess.Nudge(int64(id), dir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(m)
}

func (s *Server) exportMarkers(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.sess.Export()
	if errors.Is(err, apperr.ErrNotReady) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// The values are still useful when only the clipboard failed.
	return mcp.NewToolResultText(res.Text), nil
}

func (s *Server) getTranscriptFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(TranscriptFormatContract), nil
}

func (s *Server) readTranscriptFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      TranscriptFormatURI,
			MIMEType: "text/markdown",
			Text:     TranscriptFormatContract,
		},
	}, nil
}
