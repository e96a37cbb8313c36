package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"mdnav/internal/analysis"
	"mdnav/internal/store"
)

func (ls *Server) initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if root := workspaceRoot(params); root != "" {
		if err := ls.store.IndexWorkspace(root); err != nil {
			ls.log.Errorf("workspace indexing failed: %s", err)
		} else {
			ls.log.Infof("indexed workspace %s (%d documents)", root, len(ls.store.Documents()))
		}
	}

	return protocol.InitializeResult{
		Capabilities: ls.capabilities(),
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

// workspaceRoot picks the workspace folder, falling back to the deprecated
// rootUri and rootPath fields older clients still send.
func workspaceRoot(params *protocol.InitializeParams) string {
	if len(params.WorkspaceFolders) > 0 {
		if path, err := store.URIToPath(params.WorkspaceFolders[0].URI); err == nil {
			return path
		}
	}
	if params.RootURI != nil {
		if path, err := store.URIToPath(string(*params.RootURI)); err == nil {
			return path
		}
	}
	if params.RootPath != nil {
		return *params.RootPath
	}
	return ""
}

func (ls *Server) initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	for _, doc := range ls.store.Documents() {
		ls.publishDiagnostics(context, doc.URI)
	}
	return nil
}

func (ls *Server) shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) publishDiagnostics(context *glsp.Context, uri string) {
	diagnostics := analysis.Diagnostics(ls.store, uri)
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	context.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (ls *Server) textDocumentDidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.store.SetBuffer(params.TextDocument.URI, params.TextDocument.Text)
	ls.publishDiagnostics(context, params.TextDocument.URI)
	return nil
}

func (ls *Server) textDocumentDidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	for _, change := range params.ContentChanges {
		switch contentChange := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			ls.store.SetBuffer(params.TextDocument.URI, contentChange.Text)
		case protocol.TextDocumentContentChangeEvent:
			// the server registers full sync, so ranged events carry the
			// whole document too
			ls.store.SetBuffer(params.TextDocument.URI, contentChange.Text)
		}
	}
	ls.publishDiagnostics(context, params.TextDocument.URI)
	return nil
}

func (ls *Server) textDocumentDidSave(context *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.store.SetBuffer(params.TextDocument.URI, *params.Text)
	}
	ls.publishDiagnostics(context, params.TextDocument.URI)
	return nil
}

// textDocumentDidClose keeps the document in the store: other documents may
// link into it, and re-resolution needs its headings.
func (ls *Server) textDocumentDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *Server) textDocumentDefinition(context *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	location := analysis.Definition(ls.store, params.TextDocument.URI, params.Position)
	if location == nil {
		return nil, nil
	}
	return *location, nil
}

func (ls *Server) textDocumentHover(context *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	return analysis.Hover(ls.store, params.TextDocument.URI, params.Position), nil
}

func (ls *Server) textDocumentReferences(context *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	return analysis.References(ls.store, params.TextDocument.URI, params.Position), nil
}

func (ls *Server) textDocumentCompletion(context *glsp.Context, params *protocol.CompletionParams) (any, error) {
	var trigger *string
	if params.Context != nil {
		trigger = params.Context.TriggerCharacter
	}
	items := analysis.Completion(ls.store, params.TextDocument.URI, params.Position, trigger)
	if items == nil {
		return nil, nil
	}
	return &protocol.CompletionList{IsIncomplete: false, Items: items}, nil
}

func (ls *Server) textDocumentPrepareRename(context *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
	rng := analysis.PrepareRename(ls.store, params.TextDocument.URI, params.Position)
	if rng == nil {
		return nil, nil
	}
	return *rng, nil
}

func (ls *Server) textDocumentRename(context *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	changes := analysis.Rename(ls.store, params.TextDocument.URI, params.Position, params.NewName)
	if changes == nil {
		return nil, nil
	}
	return &protocol.WorkspaceEdit{Changes: changes}, nil
}

func (ls *Server) textDocumentDocumentSymbol(context *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	symbols := analysis.DocumentSymbols(ls.store, params.TextDocument.URI)
	if symbols == nil {
		return nil, nil
	}
	return symbols, nil
}

func (ls *Server) textDocumentCodeAction(context *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	actions := analysis.CodeActions(ls.store, params.TextDocument.URI)
	if actions == nil {
		return nil, nil
	}
	return actions, nil
}

func (ls *Server) workspaceSymbol(context *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	return analysis.WorkspaceSymbols(ls.store), nil
}
