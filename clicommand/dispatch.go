package clicommand

import (
	"context"

	"github.com/levmat/version-finder/internal/query"
	"github.com/levmat/version-finder/internal/registry"
)

// taskRegistry is the one static Task Registry instance the CLI drives
// every task subcommand through, instead of each subcommand hard-coding
// its own call into the Query Engine.
var taskRegistry = registry.New()

// runTask looks up name in the Task Registry and runs it against eng with
// the given argument bindings.
func runTask(ctx context.Context, eng *query.Engine, name string, args map[string]string) (any, error) {
	task, err := taskRegistry.ByName(name)
	if err != nil {
		return nil, err
	}
	return task.Run(ctx, eng, args)
}
