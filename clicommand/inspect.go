package clicommand

import (
	"context"
	"slices"

	"github.com/urfave/cli"
)

const inspectHelpDescription = `Usage:

   version-finder inspect [options...]

Description:

   Prints a single commit's details: sha, subject, author, date, and the
   release version its message carries, if any. With --submodule, the
   commit is resolved in the parent repository and the submodule pointer
   it records for that path is inspected instead, so you can see exactly
   which submodule commit a parent commit shipped.

Example:

   $ version-finder inspect --commit abc1234
   commit abc1234...
   Author: A Committer
   Date: 2024-02-15T10:30:00Z
   Version: 2024_02_15

       Version: 2024_02_15

   $ version-finder inspect --commit abc1234 --submodule vendor/widget
   commit 9f8e7d6...
   Author: A Committer
   Date: 2024-02-14T09:00:00Z

       Teach the widget to reticulate splines`

// InspectConfig binds the flags for the inspect subcommand.
type InspectConfig struct {
	GlobalConfig
	ExecutorFlagsConfig

	Commit    string `cli:"commit" validate:"required"`
	Submodule string `cli:"submodule"`
	Branch    string `cli:"branch"`
	Format    string `cli:"format"`
}

var InspectCommand = cli.Command{
	Name:        "inspect",
	Usage:       "Print one commit's details, or the submodule pointer it records",
	Description: inspectHelpDescription,
	Flags: slices.Concat(globalFlags(), executorFlags(), []cli.Flag{
		cli.StringFlag{Name: "commit", Usage: "Commit sha to inspect"},
		SubmoduleFlag,
		BranchFlag,
		FormatFlag,
	}),
	Action: func(c *cli.Context) error {
		cfg, l, err := setupConfig[InspectConfig](c)
		if err != nil {
			return err
		}

		ctx := context.Background()
		_, eng, err := openEngine(ctx, cfg.GlobalConfig, cfg.ExecutorFlagsConfig, cfg.Branch, l)
		if err != nil {
			return err
		}

		sha := cfg.Commit
		if cfg.Submodule != "" {
			ptr, err := eng.GetSubmodulePointer(ctx, cfg.Commit, cfg.Submodule)
			if err != nil {
				return err
			}
			l.Debug("commit %s records submodule %q at %s", cfg.Commit, cfg.Submodule, ptr)
			sha = ptr
		}

		commit, err := eng.GetCommitInfo(ctx, sha, cfg.Submodule)
		if err != nil {
			return err
		}

		return writeCommitDetail(c.App.Writer, cfg.Format, commit)
	},
}
