package clicommand_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/levmat/version-finder/clicommand"
	"github.com/levmat/version-finder/internal/verrors"
	"github.com/stretchr/testify/assert"
)

func TestPrintMessageAndReturnExitCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error is success", err: nil, want: 0},
		{name: "core error exits 1", err: verrors.New(verrors.NotReady, "update has not run"), want: 1},
		{name: "plain error exits 1", err: errors.New("boom"), want: 1},
		{name: "exit error carries its code", err: clicommand.NewExitError(3, errors.New("boom")), want: 3},
		{name: "wrapped exit error carries its code", err: fmt.Errorf("outer: %w", clicommand.NewExitError(2, errors.New("inner"))), want: 2},
		{name: "silent interrupt exits 130", err: clicommand.NewSilentExitError(130), want: 130},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, clicommand.PrintMessageAndReturnExitCode(tc.err))
		})
	}
}

func TestExitErrorsCompareByCode(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.Is(clicommand.NewExitError(3, errors.New("a")), clicommand.NewExitError(3, errors.New("b"))))
	assert.False(t, errors.Is(clicommand.NewExitError(3, errors.New("a")), clicommand.NewExitError(4, errors.New("a"))))
	assert.True(t, errors.Is(clicommand.NewSilentExitError(130), clicommand.NewSilentExitError(130)))
}
