package clicommand

import (
	"fmt"
	"io"
	"time"

	"github.com/levmat/version-finder/internal/commitinfo"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

// FormatFlag selects how commit lists are rendered. yaml is the
// structured option since that's what release-notes tooling consuming
// this output ingests.
var FormatFlag = cli.StringFlag{
	Name:  "format",
	Usage: "Output format: plain or yaml",
	Value: "plain",
}

// writeCommits renders commits to w in the requested format. An
// unrecognised format falls back to plain rather than erroring out on a
// cosmetic flag.
func writeCommits(w io.Writer, format string, commits []commitinfo.Commit) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(commits)
	default:
		for _, commit := range commits {
			fmt.Fprintf(w, "%s %s\n", commit.SHA[:min(7, len(commit.SHA))], commit.Subject)
		}
		return nil
	}
}

// writeCommitDetail renders a single commit's full record to w.
func writeCommitDetail(w io.Writer, format string, commit commitinfo.Commit) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(commit)
	default:
		fmt.Fprintf(w, "commit %s\n", commit.SHA)
		fmt.Fprintf(w, "Author: %s\n", commit.Author)
		fmt.Fprintf(w, "Date: %s\n", time.Unix(commit.Timestamp, 0).UTC().Format(time.RFC3339))
		if commit.HasVersion() {
			fmt.Fprintf(w, "Version: %s\n", commit.Version)
		}
		fmt.Fprintf(w, "\n    %s\n", commit.Subject)
		return nil
	}
}
