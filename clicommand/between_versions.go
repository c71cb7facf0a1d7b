package clicommand

import (
	"context"
	"slices"

	"github.com/levmat/version-finder/internal/commitinfo"
	"github.com/urfave/cli"
)

const betweenVersionsHelpDescription = `Usage:

   version-finder between-versions [options...]

Description:

   Enumerates the commits between two release versions, optionally scoped
   to a submodule's own history.

Example:

   $ version-finder between-versions --start-version 2024_01 --end-version 2024_02
   e4f5a6b Version: 2024_02
   a1b2c3d Add retry to the deploy hook
   9c8d7e6 Version: 2024_01`

// BetweenVersionsConfig binds the flags for task 1, "Find all commits
// between two versions".
type BetweenVersionsConfig struct {
	GlobalConfig
	ExecutorFlagsConfig

	StartVersion string `cli:"start-version" validate:"required"`
	EndVersion   string `cli:"end-version" validate:"required"`
	Submodule    string `cli:"submodule"`
	Branch       string `cli:"branch"`
	Format       string `cli:"format"`
}

var BetweenVersionsCommand = cli.Command{
	Name:        "between-versions",
	Usage:       "Enumerate commits between two versions",
	Description: betweenVersionsHelpDescription,
	Flags: slices.Concat(globalFlags(), executorFlags(), []cli.Flag{
		cli.StringFlag{Name: "start-version", Usage: "Earlier version string"},
		cli.StringFlag{Name: "end-version", Usage: "Later version string"},
		SubmoduleFlag,
		BranchFlag,
		FormatFlag,
	}),
	Action: func(c *cli.Context) error {
		cfg, l, err := setupConfig[BetweenVersionsConfig](c)
		if err != nil {
			return err
		}

		ctx := context.Background()
		_, eng, err := openEngine(ctx, cfg.GlobalConfig, cfg.ExecutorFlagsConfig, cfg.Branch, l)
		if err != nil {
			return err
		}

		value, err := runTask(ctx, eng, "commits-between-versions", map[string]string{
			"start_version": cfg.StartVersion,
			"end_version":   cfg.EndVersion,
			"submodule":     cfg.Submodule,
		})
		if err != nil {
			return err
		}

		return writeCommits(c.App.Writer, cfg.Format, value.([]commitinfo.Commit))
	},
}
