package osutil

import (
	"errors"
	"os"
	"path/filepath"
)

var errInvalidHomeExpansion = errors.New("cannot expand user-specific home dir")

// NormalizeFilePath returns a clean, absolute version of path. It expands
// environment variables and a leading "~/" into the user's home directory
// before absoluting it.
func NormalizeFilePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	path, err := expandHome(os.ExpandEnv(path))
	if err != nil {
		return "", err
	}

	return filepath.Abs(path)
}

// NormalizeCommand has the same expansion semantics as NormalizeFilePath,
// except the path is only absoluted if it exists on the filesystem. This
// lets a bare command name (e.g. "git") pass through untouched while a
// script path like "./hooks/pre-command" is resolved, e.g.:
//
// "templates/pre-exit.sh"  => "/home/me/project/templates/pre-exit.sh"
// "~/.version-finder/x.sh" => "/home/me/.version-finder/x.sh"
// "git log"                => "git log"
func NormalizeCommand(commandPath string) (string, error) {
	if commandPath == "" {
		return "", nil
	}

	commandPath, err := expandHome(os.ExpandEnv(commandPath))
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(commandPath); err == nil {
		absoluteCommandPath, err := filepath.Abs(commandPath)
		if err != nil {
			return "", err
		}
		commandPath = absoluteCommandPath
	}

	return commandPath, nil
}

// expandHome expands a leading "~" into the current user's home directory.
func expandHome(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	if len(path) > 1 && path[1] != '/' && path[1] != '\\' {
		return "", errInvalidHomeExpansion
	}

	home, err := UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
