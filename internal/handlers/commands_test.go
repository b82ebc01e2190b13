package handlers

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaslilac/bombas/internal/clock"
	"github.com/xaslilac/bombas/internal/grid"
	"github.com/xaslilac/bombas/internal/session"
)

func newCommandSession(t *testing.T) *session.Session {
	t.Helper()
	g, err := grid.New(
		grid.Params{Width: 9, Height: 9, MineCount: 10},
		rand.New(rand.NewPCG(1, 2)),
		&clock.MockClock{Time: time.Unix(1700000000, 0).UTC()},
	)
	require.NoError(t, err)
	return session.New(session.NewId(), g)
}

func TestExecuteCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		command string
		wantErr string
	}{
		{"unknown", "q 1 2", "unknown command"},
		{"missing args", "o 1", "invalid number of arguments"},
		{"extra args", "r 1", "invalid number of arguments"},
		{"non-numeric x", "o a 2", "first argument must be an int"},
		{"non-numeric y", "m 2 b", "second argument must be an int"},
		{"out of bounds", "o 100 100", session.ErrOutOfBounds.Error()},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newCommandSession(t)
			err := executeCommand(s, test.command)
			require.Error(t, err)
			assert.EqualError(t, err, test.wantErr)
		})
	}
}

func TestExecuteCommands(t *testing.T) {
	s := newCommandSession(t)

	require.NoError(t, executeCommand(s, "m 4 4"))
	require.NoError(t, executeCommand(s, "o 0 0"))
	require.NoError(t, executeCommand(s, "r"))
	assert.False(t, s.Over())
}
