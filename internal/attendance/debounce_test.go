package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebounceAcceptsFirstScan(t *testing.T) {
	d := NewDebounce(5 * time.Second)
	require.True(t, d.Accept("e1", at(9, 0)))
}

func TestDebounceRejectsWithinCooldown(t *testing.T) {
	d := NewDebounce(5 * time.Second)
	now := at(9, 0)

	require.True(t, d.Accept("e1", now))
	require.False(t, d.Accept("e1", now.Add(2*time.Second)))
	require.False(t, d.Accept("e1", now.Add(4*time.Second)))
}

func TestDebounceAcceptsAfterCooldown(t *testing.T) {
	d := NewDebounce(5 * time.Second)
	now := at(9, 0)

	require.True(t, d.Accept("e1", now))
	require.True(t, d.Accept("e1", now.Add(5*time.Second)))
}

func TestDebounceIsPerEmployee(t *testing.T) {
	d := NewDebounce(5 * time.Second)
	now := at(9, 0)

	require.True(t, d.Accept("e1", now))
	require.True(t, d.Accept("e2", now))
}

func TestDebounceForget(t *testing.T) {
	d := NewDebounce(5 * time.Second)
	now := at(9, 0)

	require.True(t, d.Accept("e1", now))
	d.Forget("e1")
	require.True(t, d.Accept("e1", now.Add(time.Second)))
}
