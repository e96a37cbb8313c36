// Package lsp wires the analysis queries to the Language Server Protocol.
package lsp

import (
	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"mdnav/internal/analysis"
	"mdnav/internal/store"
)

const lsName = "mdnav"

var version = "0.1.0"

type Server struct {
	store   *store.Store
	handler *protocol.Handler
	log     commonlog.Logger
}

func NewServer() (*server.Server, error) {
	ls := &Server{
		store: store.New(),
		log:   commonlog.GetLogger(lsName),
	}

	ls.handler = &protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDefinition:     ls.textDocumentDefinition,
		TextDocumentHover:          ls.textDocumentHover,
		TextDocumentReferences:     ls.textDocumentReferences,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentPrepareRename:  ls.textDocumentPrepareRename,
		TextDocumentRename:         ls.textDocumentRename,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentCodeAction:     ls.textDocumentCodeAction,
		WorkspaceSymbol:            ls.workspaceSymbol,
	}

	return server.NewServer(ls.handler, lsName, false), nil
}

func (ls *Server) capabilities() protocol.ServerCapabilities {
	capabilities := ls.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: &protocol.True},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: analysis.TriggerCharacters,
	}
	capabilities.RenameProvider = protocol.RenameOptions{
		PrepareProvider: &protocol.True,
	}

	return capabilities
}
