package main

import (
	"context"
	"io"

	"github.com/evidmap/evidmap"
	"github.com/evidmap/evidmap/ingest"
	"github.com/evidmap/evidmap/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	DB     *sqlite.DB

	Sources   evidmap.SourceService
	Documents evidmap.DocumentService
	Jobs      evidmap.JobService

	Ingester *ingest.Ingester
	Worker   *ingest.Worker
	Server   ServerRunner
}

// ServerRunner starts the API server and blocks until shutdown. Implemented
// in main.go; the indirection keeps ServeCmd testable.
type ServerRunner interface {
	Serve(ctx context.Context, addr string) error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve     ServeCmd     `cmd:"" help:"Run the HTTP API server"`
	Ingest    IngestCmd    `cmd:"" help:"Ingest a source's feed now"`
	Worker    WorkerCmd    `cmd:"" help:"Run the ingestion queue worker"`
	Sources   SourcesCmd   `cmd:"" help:"List registered sources"`
	AddSource AddSourceCmd `cmd:"" name:"add-source" help:"Register a new source"`
	Enqueue   EnqueueCmd   `cmd:"" help:"Queue an ingestion job for a source"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr    string `default:":8080" help:"Bind address"`
	Browser bool   `help:"Fetch pages with a headless browser (needs Chrome or Chromium)"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	SourceID    string `arg:"" help:"Source ID to ingest"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent entry processing limit"`
}

// WorkerCmd is the "worker" subcommand.
type WorkerCmd struct {
	PollInterval string `default:"5s" help:"Queue polling interval"`
}

// SourcesCmd is the "sources" subcommand.
type SourcesCmd struct{}

// AddSourceCmd is the "add-source" subcommand.
type AddSourceCmd struct {
	Name string `arg:"" help:"Source name"`
	URL  string `arg:"" optional:"" help:"Feed URL (omit for manual sources)"`
	Type string `default:"feed" enum:"feed,podcast,manual" help:"Source type"`
}

// EnqueueCmd is the "enqueue" subcommand.
type EnqueueCmd struct {
	SourceID string `arg:"" help:"Source ID to queue"`
}
