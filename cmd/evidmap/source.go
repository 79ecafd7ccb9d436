package main

import (
	"fmt"

	"github.com/evidmap/evidmap"
)

// Run executes the sources command.
func (c *SourcesCmd) Run(deps *Dependencies) error {
	sources, err := deps.Sources.FindSources(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", evidmap.ErrorMessage(err))
		return err
	}

	if len(sources) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources found. Use 'evidmap add-source' to create one.")
		return nil
	}

	for _, s := range sources {
		polled := "never"
		if s.LastPolled != nil {
			polled = s.LastPolled.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(deps.Stdout, "%s  %-8s  %s  %s  (polled %s)\n", s.ID, s.Type, s.Name, s.URL, polled)
	}

	return nil
}

// Run executes the add-source command.
func (c *AddSourceCmd) Run(deps *Dependencies) error {
	source := &evidmap.Source{
		Name: c.Name,
		Type: c.Type,
		URL:  c.URL,
	}

	if err := deps.Sources.CreateSource(deps.Ctx, source); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", evidmap.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added source %s (%s)\n", source.Name, source.ID)
	return nil
}

// Run executes the enqueue command.
func (c *EnqueueCmd) Run(deps *Dependencies) error {
	if _, err := deps.Sources.FindSourceByID(deps.Ctx, c.SourceID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", evidmap.ErrorMessage(err))
		return err
	}

	job, err := deps.Jobs.EnqueueJob(deps.Ctx, c.SourceID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", evidmap.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Queued job %s for source %s\n", job.ID, c.SourceID)
	return nil
}
