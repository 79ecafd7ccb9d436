package main

import (
	"fmt"

	"github.com/evidmap/evidmap"
	"github.com/evidmap/evidmap/ingest"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	deps.Ingester.Concurrency = c.Concurrency

	progress := func(event ingest.ProgressEvent) {
		switch event.Type {
		case ingest.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "ingesting %d entries\n", event.Total)
		case ingest.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "entry %s: %s\n", event.EntryID, event.Error)
		}
	}

	result, err := deps.Ingester.IngestSource(deps.Ctx, c.SourceID, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", evidmap.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "done: %d created, %d updated, %d skipped, %d failed\n",
		result.Created, result.Updated, result.Skipped, result.Failed)
	return nil
}
