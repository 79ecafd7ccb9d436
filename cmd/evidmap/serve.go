package main

import "fmt"

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "listening on %s\n", c.Addr)
	return deps.Server.Serve(deps.Ctx, c.Addr)
}
