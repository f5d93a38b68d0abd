package main

import (
	"fmt"

	"github.com/docfetchd/docfetchd"
)

// Run executes the cancel command.
func (c *CancelCmd) Run(deps *Dependencies) error {
	if err := deps.Jobs.Cancel(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docfetchd.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "cancelled %s\n", c.ID)
	return nil
}
