package vparser_test

import (
	"regexp"
	"testing"

	"github.com/levmat/version-finder/internal/vparser"
	"github.com/stretchr/testify/assert"
)

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
		wantOK  bool
	}{
		{"plain keyword", "Version: 2024_01", "2024_01", true},
		{"xx marker", "Version: XX_2024_01_15", "2024_01_15", true},
		{"embedded in prose", "Random text Version: 2024-01-15 more text", "2024-01-15", true},
		{"bare token no keyword", "2024_01_15_23", "2024_01_15_23", true},
		{"no version", "No version here", "", false},
		{"dangling separator", "2023-text", "", false},
		{"trailing non-digit suffix", "Version: XX_2024_01_15_RC1", "2024_01_15", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := vparser.ExtractVersion(tt.message)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Any subject git's --extended-regexp filter selects as a version commit
// must also parse under ExtractVersion, or SurroundingVersions would hand
// back commits the parser then rejects.
func TestGitGrepPatternAgreesWithExtractVersion(t *testing.T) {
	gitRe := regexp.MustCompile(vparser.GitGrepPattern)

	subjects := []string{
		"Version: 2024_01",
		"VERSION: 2024_02_03",
		"Version: XX_2024_01_15",
		"Version 2024-01-15",
		"Updated version 1.2.3",
		"Version: 2024_01_15_23 hotfix",
		"no version here",
		"2023-text",
	}

	for _, subject := range subjects {
		if !gitRe.MatchString(subject) {
			continue
		}
		_, ok := vparser.ExtractVersion(subject)
		assert.True(t, ok, "git-side filter accepted %q but ExtractVersion rejected it", subject)
	}
}

func TestExtractVersionIsPure(t *testing.T) {
	msg := "Version: 2024_01_15"
	first, _ := vparser.ExtractVersion(msg)
	for range 10 {
		got, _ := vparser.ExtractVersion(msg)
		assert.Equal(t, first, got)
	}
}
