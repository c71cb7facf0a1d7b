package clicommand

import (
	"context"
	"slices"

	"github.com/levmat/version-finder/internal/commitinfo"
	"github.com/urfave/cli"
)

const findTextHelpDescription = `Usage:

   version-finder find-text [options...]

Description:

   Enumerates commits whose subject or body contains a free-text query,
   case-insensitively, optionally scoped to a submodule's own history.

Example:

   $ version-finder find-text --search-text "fix flaky test"
   a1b2c3d Fix flaky test in the deploy pipeline`

// FindTextConfig binds the flags for task 2, "Find commit by text".
type FindTextConfig struct {
	GlobalConfig
	ExecutorFlagsConfig

	SearchText string `cli:"search-text" validate:"required"`
	Submodule  string `cli:"submodule"`
	Branch     string `cli:"branch"`
	Format     string `cli:"format"`
}

var FindTextCommand = cli.Command{
	Name:        "find-text",
	Usage:       "Find commits by free-text search",
	Description: findTextHelpDescription,
	Flags: slices.Concat(globalFlags(), executorFlags(), []cli.Flag{
		cli.StringFlag{Name: "search-text", Usage: "Text to search for in the commit subject or body"},
		SubmoduleFlag,
		BranchFlag,
		FormatFlag,
	}),
	Action: func(c *cli.Context) error {
		cfg, l, err := setupConfig[FindTextConfig](c)
		if err != nil {
			return err
		}

		ctx := context.Background()
		_, eng, err := openEngine(ctx, cfg.GlobalConfig, cfg.ExecutorFlagsConfig, cfg.Branch, l)
		if err != nil {
			return err
		}

		value, err := runTask(ctx, eng, "find-commit-by-text", map[string]string{
			"text":      cfg.SearchText,
			"submodule": cfg.Submodule,
		})
		if err != nil {
			return err
		}

		return writeCommits(c.App.Writer, cfg.Format, value.([]commitinfo.Commit))
	},
}
