package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/verdict"
	"github.com/aretw0/verdict/internal/logging"
	"github.com/aretw0/verdict/internal/presentation/tui"
	"github.com/aretw0/verdict/internal/sanitize"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/ports"
	"github.com/aretw0/verdict/pkg/session"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// DocumentResponse aligns with the HTTP API and provides a unified structure across adapters.
type DocumentResponse struct {
	SessionID string        `json:"session_id" jsonschema_description:"Document identifier"`
	Phase     domain.Phase  `json:"phase" jsonschema_description:"editing until the first conversion, then document"`
	Title     string        `json:"title" jsonschema_description:"First non-blank line of the converted text"`
	Nodes     []domain.Node `json:"nodes" jsonschema_description:"Text and group nodes in display order"`
	Ratio     *domain.Ratio `json:"ratio" jsonschema_description:"Set once every item has a verdict"`
}

func newDocumentResponse(state *domain.State) DocumentResponse {
	return DocumentResponse{
		SessionID: state.SessionID,
		Phase:     state.Phase,
		Title:     state.Title,
		Nodes:     state.Document.Nodes,
		Ratio:     state.Ratio(),
	}
}

// Server exposes document sessions as MCP tools and resources.
type Server struct {
	engine    ports.DocumentEngine
	sessions  *session.Manager
	strategy  domain.IDStrategy
	maxText   int
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for tool calls and transports.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithIDStrategy sets the identifier strategy for documents created without one.
func WithIDStrategy(strategy domain.IDStrategy) Option {
	return func(s *Server) {
		s.strategy = strategy
	}
}

// WithMaxTextSize overrides the sanitizer's byte limit for incoming text.
func WithMaxTextSize(limit int) Option {
	return func(s *Server) {
		s.maxText = limit
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.DocumentEngine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		strategy: domain.IDStrategySequence,
		logger:   logging.NewNop(),
		mcpServer: server.NewMCPServer("verdict-mcp", strings.TrimSpace(verdict.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithRecovery(),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// -- Tool arguments --

type createArgs struct {
	ID         string `mapstructure:"id"`
	IDStrategy string `mapstructure:"id_strategy"`
}

type documentArgs struct {
	DocumentID string `mapstructure:"document_id"`
}

type convertArgs struct {
	DocumentID     string `mapstructure:"document_id"`
	NodeID         string `mapstructure:"node_id"`
	Text           string `mapstructure:"text"`
	SelectionStart int    `mapstructure:"selection_start"`
	SelectionEnd   int    `mapstructure:"selection_end"`
}

type editTextArgs struct {
	DocumentID string `mapstructure:"document_id"`
	NodeID     string `mapstructure:"node_id"`
	Text       string `mapstructure:"text"`
}

type classifyArgs struct {
	DocumentID string `mapstructure:"document_id"`
	GroupID    string `mapstructure:"group_id"`
	ItemID     string `mapstructure:"item_id"`
	State      string `mapstructure:"state"`
}

// decodeArgs maps the loosely typed tool arguments onto dest.
// JSON numbers arrive as float64 and are narrowed to ints here.
func decodeArgs(request mcp.CallToolRequest, dest any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           dest,
	})
	if err != nil {
		return err
	}
	return dec.Decode(request.GetArguments())
}

// toolFunc is a tool body over decoded arguments.
type toolFunc[T any] func(ctx context.Context, args T) (*domain.State, error)

// tool adapts fn into a handler. Domain errors become tool errors so the
// calling agent sees why nothing happened.
func tool[T any](s *Server, name string, fn toolFunc[T]) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args T
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultErrorf("invalid arguments: %v", err), nil
		}
		state, err := fn(ctx, args)
		if err != nil {
			code := errorCode(err)
			if domain.IsNoop(err) {
				s.logger.Debug("MCP tool was a no-op", "tool", name, "reason", code)
			} else {
				s.logger.Warn("MCP tool failed", "tool", name, "err", err)
			}
			return mcp.NewToolResultErrorf("%s: %v", code, err), nil
		}
		return mcp.NewToolResultStructuredOnly(newDocumentResponse(state)), nil
	}
}

var errInvalidArgument = errors.New("invalid argument")

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptySelection):
		return "empty_selection"
	case errors.Is(err, domain.ErrNoFocusedInput):
		return "no_focused_input"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "document_not_found"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, sanitize.ErrInputTooLarge),
		errors.Is(err, sanitize.ErrInvalidUTF8),
		errors.Is(err, sanitize.ErrControlCharacter):
		return "invalid_text"
	case errors.Is(err, errInvalidArgument):
		return "invalid_arguments"
	}
	return "internal"
}

func requireArg(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", errInvalidArgument, name)
	}
	return nil
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Start a new verdict document in the editing phase."),
		mcp.WithString("id", mcp.Description("Document id (optional, generated when omitted)")),
		mcp.WithString("id_strategy", mcp.Enum(string(domain.IDStrategySequence), string(domain.IDStrategyUUID)),
			mcp.Description("How item and node ids are minted")),
		mcp.WithOutputSchema[DocumentResponse](),
	), tool(s, "create_document", s.createDocument))

	s.mcpServer.AddTool(mcp.NewTool("convert",
		mcp.WithDescription("Turn the selected lines into a group of neutral items. "+
			"Without node_id the text is the free-text buffer and only works before the first conversion; "+
			"with node_id it is the current value of that text node."),
		mcp.WithString("document_id", mcp.Required()),
		mcp.WithString("node_id", mcp.Description("Text node holding the selection")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Full text of the input")),
		mcp.WithNumber("selection_start", mcp.Required(), mcp.Min(0), mcp.Description("Selection start, in characters")),
		mcp.WithNumber("selection_end", mcp.Required(), mcp.Min(0), mcp.Description("Selection end, in characters")),
		mcp.WithOutputSchema[DocumentResponse](),
	), tool(s, "convert", s.convert))

	s.mcpServer.AddTool(mcp.NewTool("edit_text",
		mcp.WithDescription("Replace the text of a text node."),
		mcp.WithString("document_id", mcp.Required()),
		mcp.WithString("node_id", mcp.Required()),
		mcp.WithString("text", mcp.Required()),
		mcp.WithOutputSchema[DocumentResponse](),
	), tool(s, "edit_text", s.editText))

	s.mcpServer.AddTool(mcp.NewTool("classify",
		mcp.WithDescription("Mark an item as success or failure. Requesting the current state resets it to neutral. "+
			"Successes move to the top in marking order, failures to the bottom with the newest first."),
		mcp.WithString("document_id", mcp.Required()),
		mcp.WithString("group_id", mcp.Required()),
		mcp.WithString("item_id", mcp.Required()),
		mcp.WithString("state", mcp.Required(), mcp.Enum(string(domain.StateSuccess), string(domain.StateFailure))),
		mcp.WithOutputSchema[DocumentResponse](),
	), tool(s, "classify", s.classify))

	s.mcpServer.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Read a document with its ratio."),
		mcp.WithString("document_id", mcp.Required()),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOutputSchema[DocumentResponse](),
	), tool(s, "get_document", s.getDocument))
}

func (s *Server) createDocument(ctx context.Context, args createArgs) (*domain.State, error) {
	if args.ID == "" {
		args.ID = uuid.NewString()
	}
	strategy := s.strategy
	if args.IDStrategy != "" {
		strategy = domain.IDStrategy(args.IDStrategy)
		if !strategy.Valid() {
			return nil, fmt.Errorf("%w: id_strategy %q", errInvalidArgument, args.IDStrategy)
		}
	}
	return s.sessions.LoadOrStart(ctx, args.ID, strategy)
}

func (s *Server) convert(ctx context.Context, args convertArgs) (*domain.State, error) {
	if err := requireArg("document_id", args.DocumentID); err != nil {
		return nil, err
	}
	if err := sanitize.Text(args.Text, s.maxText); err != nil {
		return nil, err
	}
	return s.update(ctx, args.DocumentID, func(ctx context.Context, state *domain.State) (*domain.State, error) {
		if args.NodeID != "" {
			return s.engine.ConvertNode(ctx, state, domain.ID(args.NodeID), args.Text, args.SelectionStart, args.SelectionEnd)
		}
		return s.engine.InitialConvert(ctx, state, args.Text, args.SelectionStart, args.SelectionEnd)
	})
}

func (s *Server) editText(ctx context.Context, args editTextArgs) (*domain.State, error) {
	if err := requireArg("document_id", args.DocumentID); err != nil {
		return nil, err
	}
	if err := requireArg("node_id", args.NodeID); err != nil {
		return nil, err
	}
	if err := sanitize.Text(args.Text, s.maxText); err != nil {
		return nil, err
	}
	return s.update(ctx, args.DocumentID, func(ctx context.Context, state *domain.State) (*domain.State, error) {
		return s.engine.EditText(ctx, state, domain.ID(args.NodeID), args.Text)
	})
}

func (s *Server) classify(ctx context.Context, args classifyArgs) (*domain.State, error) {
	if err := requireArg("document_id", args.DocumentID); err != nil {
		return nil, err
	}
	requested, err := domain.ParseItemState(args.State)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, args.DocumentID, func(ctx context.Context, state *domain.State) (*domain.State, error) {
		return s.engine.Classify(ctx, state, domain.ID(args.GroupID), domain.ID(args.ItemID), requested)
	})
}

func (s *Server) getDocument(ctx context.Context, args documentArgs) (*domain.State, error) {
	if err := requireArg("document_id", args.DocumentID); err != nil {
		return nil, err
	}
	return s.sessions.Load(ctx, args.DocumentID)
}

func (s *Server) update(ctx context.Context, id string, fn session.UpdateFunc) (*domain.State, error) {
	_, next, err := s.sessions.Update(ctx, id, fn)
	return next, err
}

const documentsURI = "verdict://documents"

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(documentsURI, "Live documents",
		mcp.WithResourceDescription("Ids of the documents currently held by the server"),
		mcp.WithMIMEType("application/json"),
	), s.readDocuments)

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(documentsURI+"/{id}", "Document as markdown",
		mcp.WithTemplateDescription("A document rendered as a markdown task list with its ratio"),
		mcp.WithTemplateMIMEType("text/markdown"),
	), s.readDocument)
}

func (s *Server) readDocuments(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	jsonBytes, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      documentsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (s *Server) readDocument(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := templateArg(request.Params.Arguments, "id")
	if id == "" {
		id = strings.TrimPrefix(request.Params.URI, documentsURI+"/")
	}
	state, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/markdown",
			Text:     tui.Markdown(state),
		},
	}, nil
}

// templateArg reads a matched URI template variable, which arrives as []string.
func templateArg(args map[string]any, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
