package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"mdnav/internal/lsp"
)

func main() {
	commonlog.Configure(1, nil)

	// stdout carries the protocol, so logs go to stderr and a file
	logsDir := filepath.Join(os.TempDir(), "mdnav")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		log.Fatalf("Failed to create logs directory: %v", err)
	}
	logFile, err := os.OpenFile(
		filepath.Join(logsDir, "mdnav.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	log.SetOutput(io.MultiWriter(os.Stderr, logFile))
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	log.Println("Starting mdnav language server...")

	server, err := lsp.NewServer()
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	if err := server.RunStdio(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
