package clicommand

import (
	"context"

	"github.com/levmat/version-finder/internal/gitexec"
	"github.com/levmat/version-finder/internal/query"
	"github.com/levmat/version-finder/internal/repository"
	"github.com/levmat/version-finder/logger"
)

// openEngine opens a Repository Model at global.Path, brings it to
// task-ready via UpdateRepository(branch), and wraps it in a Query Engine.
// Every task subcommand is a one-shot process, so unlike the long-lived
// GUI/worker the core was originally built for, it performs the
// load/validate/update sequence itself rather than assuming a prior
// "update" invocation left the Model ready in this same process.
func openEngine(ctx context.Context, global GlobalConfig, exec ExecutorFlagsConfig, branch string, l logger.Logger) (*repository.Model, *query.Engine, error) {
	repoCfg := repository.DefaultConfig()
	repoCfg.Executor = gitexec.Config{
		Timeout:    exec.Timeout,
		MaxRetries: exec.Retries,
		RetryDelay: exec.RetryDelay,
		ExtraArgs:  exec.ExtraGitArgs,
	}

	model, err := repository.Open(ctx, global.Path, repoCfg, l)
	if err != nil {
		return nil, nil, err
	}

	if err := model.UpdateRepository(ctx, branch); err != nil {
		return nil, nil, err
	}

	eng := query.New(model, l, exec.SubmoduleScanWindow)
	return model, eng, nil
}
