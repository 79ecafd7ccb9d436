package main

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Run executes the worker command. It blocks until the context is cancelled.
func (c *WorkerCmd) Run(deps *Dependencies) error {
	interval, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return fmt.Errorf("invalid poll interval %q: %w", c.PollInterval, err)
	}
	deps.Worker.PollInterval = interval

	fmt.Fprintf(deps.Stdout, "worker polling every %s\n", interval)

	if err := deps.Worker.Run(deps.Ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
