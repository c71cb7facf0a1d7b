// Package commitinfo defines the structured commit description returned by
// every Query Engine operation.
package commitinfo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/levmat/version-finder/internal/vparser"
)

// FieldSep is the ASCII Unit Separator used to delimit fields in git's
// --format output, chosen because it cannot appear in a commit message.
const FieldSep = "\x1f"

// ShowFormat is the --format string for `git show -s` that
// ParseShowOutput expects: sha, subject, full message, author, timestamp.
const ShowFormat = "%H" + FieldSep + "%s" + FieldSep + "%B" + FieldSep + "%an" + FieldSep + "%at"

// Commit is a structured description of a git commit.
type Commit struct {
	SHA       string
	Subject   string
	Message   string
	Author    string
	Timestamp int64
	// Version is the token ExtractVersion found in Message, or empty.
	Version string
}

// HasVersion reports whether this commit matched the version grammar.
func (c Commit) HasVersion() bool { return c.Version != "" }

// ParseShowOutput parses the output of `git show -s --format=ShowFormat
// <sha>` into a Commit, populating Version via vparser.ExtractVersion
// over the full message.
func ParseShowOutput(raw []byte) (Commit, error) {
	text := strings.TrimSuffix(string(raw), "\n")
	fields := strings.Split(text, FieldSep)
	if len(fields) != 5 {
		return Commit{}, fmt.Errorf("commitinfo: expected 5 fields, got %d in %q", len(fields), text)
	}

	ts, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return Commit{}, fmt.Errorf("commitinfo: parsing timestamp %q: %w", fields[4], err)
	}

	message := fields[2]
	version, _ := vparser.ExtractVersion(message)

	return Commit{
		SHA:       fields[0],
		Subject:   fields[1],
		Message:   message,
		Author:    fields[3],
		Timestamp: ts,
		Version:   version,
	}, nil
}

// recordSep terminates each record in a multi-commit `git log` dump, since
// a commit body can itself contain embedded newlines and so cannot be used
// to split records.
const recordSep = "\x1e"

// LogFormat is the --format string used by the bulk log scan in
// FindCommitsByText: sha, subject, body only (no author/timestamp, since
// matches are re-fetched with GetCommitInfo once identified).
const LogFormat = "%H" + FieldSep + "%s" + FieldSep + "%b" + recordSep

// LogRecord is one record parsed out of a LogFormat-formatted `git log`.
type LogRecord struct {
	SHA     string
	Subject string
	Body    string
}

// ParseLogOutput splits `git log --format=LogFormat` output into records,
// one per commit, in the order git produced them (reverse chronological).
func ParseLogOutput(raw []byte) ([]LogRecord, error) {
	text := string(raw)
	chunks := strings.Split(text, recordSep)
	// The final chunk is whatever trails the last record's separator
	// (normally empty, or a trailing newline); drop it.
	if len(chunks) > 0 {
		chunks = chunks[:len(chunks)-1]
	}

	records := make([]LogRecord, 0, len(chunks))
	for _, chunk := range chunks {
		chunk = strings.TrimPrefix(chunk, "\n")
		fields := strings.Split(chunk, FieldSep)
		if len(fields) != 3 {
			return nil, fmt.Errorf("commitinfo: expected 3 fields, got %d in %q", len(fields), chunk)
		}
		records = append(records, LogRecord{SHA: fields[0], Subject: fields[1], Body: fields[2]})
	}
	return records, nil
}

// MatchesText reports whether text appears, case-insensitively, in either
// the record's subject or body.
func (r LogRecord) MatchesText(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(strings.ToLower(r.Subject), lower) || strings.Contains(strings.ToLower(r.Body), lower)
}
