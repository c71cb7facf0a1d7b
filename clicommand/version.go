package clicommand

import (
	"fmt"

	"github.com/levmat/version-finder/version"
	"github.com/urfave/cli"
)

var VersionCommand = cli.Command{
	Name:  "version",
	Usage: "Print the version-finder version",
	Action: func(c *cli.Context) error {
		fmt.Fprintf(c.App.Writer, "%s\n", version.FullVersion())
		return nil
	},
}
