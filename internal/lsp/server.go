// Package lsp implements a Language Server Protocol server over the N
// project driver: diagnostics on change, and hover for module items.
package lsp

import (
	"context"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/n-lang/ncore/internal/diag"
	"github.com/n-lang/ncore/internal/project"
	"github.com/n-lang/ncore/internal/sema"
	"github.com/n-lang/ncore/internal/stdlib"
)

// Server implements protocol.Server for a single N project rooted at
// WorkspaceRoot, re-resolving the whole project on every document change
// (spec §9: resolution is cheap enough to redo wholesale; no incremental
// reanalysis).
type Server struct {
	client protocol.Client
	logger *zap.Logger

	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	workspaceRoot string
	entryModule   string
	std           *stdlib.Registry

	initialized bool
	shutdown    bool
}

// Document is one open buffer's last-known content and analysis result.
type Document struct {
	URI     protocol.DocumentURI
	Version int32
	Content string

	Diagnostics *diag.Set
	Project     *project.Project
}

func NewServer(client protocol.Client, logger *zap.Logger, workspaceRoot, entryModule string) *Server {
	return &Server{
		client:        client,
		logger:        logger,
		documents:     make(map[protocol.DocumentURI]*Document),
		workspaceRoot: workspaceRoot,
		entryModule:   entryModule,
		std:           stdlib.MSSQLBundle(),
	}
}

func (s *Server) getDocument(uri protocol.DocumentURI) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[uri]
	return d, ok
}

func (s *Server) setDocument(d *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[d.URI] = d
}

func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("initialize", zap.String("root", string(params.RootURI)))
	s.initialized = true
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncKindFull,
			HoverProvider:    true,
		},
		ServerInfo: &protocol.ServerInfo{Name: "nlsp"},
	}, nil
}

func (s *Server) Initialized(context.Context, *protocol.InitializedParams) error { return nil }

func (s *Server) Shutdown(context.Context) error {
	s.shutdown = true
	return nil
}

func (s *Server) Exit(context.Context) error { return nil }

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := &Document{URI: params.TextDocument.URI, Version: params.TextDocument.Version, Content: params.TextDocument.Text}
	s.analyze(doc)
	s.setDocument(doc)
	s.publishDiagnostics(ctx, doc)
	return nil
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		doc = &Document{URI: params.TextDocument.URI}
	}
	doc.Version = params.TextDocument.Version
	if len(params.ContentChanges) > 0 {
		doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
	}
	s.analyze(doc)
	s.setDocument(doc)
	s.publishDiagnostics(ctx, doc)
	return nil
}

func (s *Server) DidClose(_ context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()
	return nil
}

func (s *Server) DidSave(context.Context, *protocol.DidSaveTextDocumentParams) error { return nil }

// analyze re-runs the fixed-point driver over the whole workspace, using
// the in-memory buffer for the document's own module and the on-disk
// directory source for everything else (spec §6's TextSource).
func (s *Server) analyze(doc *Document) {
	name := moduleNameFromURI(doc.URI)
	dir := project.NewDirTextSource(s.workspaceRoot)
	source := project.NewOverlayTextSource(dir, map[string]string{name: doc.Content})

	proj := project.NewProject(source, sema.NewAnalyzer(s.std))
	proj.RequestModule(modulePath(s.entryModule))
	proj.RequestModule(modulePath(name))

	doc.Diagnostics = proj.Resolve()
	doc.Project = proj
}
