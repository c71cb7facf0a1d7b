package clicommand

import (
	"context"
	"slices"

	"github.com/levmat/version-finder/internal/gitexec"
	"github.com/levmat/version-finder/internal/repository"
	"github.com/urfave/cli"
)

const updateHelpDescription = `Usage:

   version-finder update [options...]

Description:

   Checks out a branch, pulls if a remote is present, and brings
   submodules in sync, without running a query. Useful for warming a
   working tree (e.g. in a CI step) before running a task subcommand
   against it. Every task subcommand also performs this sequence itself,
   since each CLI invocation is a fresh process and so never inherits a
   prior "task ready" Model.`

// UpdateConfig binds the flags for the update subcommand.
type UpdateConfig struct {
	GlobalConfig
	ExecutorFlagsConfig

	Branch string `cli:"branch"`
}

var UpdateCommand = cli.Command{
	Name:        "update",
	Usage:       "Checkout, pull, and sync submodules",
	Description: updateHelpDescription,
	Flags:       slices.Concat(globalFlags(), executorFlags(), []cli.Flag{BranchFlag}),
	Action: func(c *cli.Context) error {
		cfg, l, err := setupConfig[UpdateConfig](c)
		if err != nil {
			return err
		}

		ctx := context.Background()
		repoCfg := repository.DefaultConfig()
		repoCfg.Executor = gitexec.Config{
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.Retries,
			RetryDelay: cfg.RetryDelay,
			ExtraArgs:  cfg.ExtraGitArgs,
		}

		model, err := repository.Open(ctx, cfg.Path, repoCfg, l)
		if err != nil {
			return err
		}

		if err := model.UpdateRepository(ctx, cfg.Branch); err != nil {
			return err
		}

		l.Notice("repository at %s is up to date and task-ready", model.Path())
		return nil
	},
}
