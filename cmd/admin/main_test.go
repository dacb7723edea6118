package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/family-gallery/internal/config"
)

func stubTerminal(t *testing.T, tty bool, pw string, err error) *int {
	t.Helper()
	calls := 0
	oldRead, oldTTY := readPassword, isTerminal
	readPassword = func(int) ([]byte, error) {
		calls++
		return []byte(pw), err
	}
	isTerminal = func(int) bool { return tty }
	t.Cleanup(func() { readPassword, isTerminal = oldRead, oldTTY })
	return &calls
}

func TestReadAdminPassword_Env(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "from-env")
	calls := stubTerminal(t, true, "typed", nil)

	pw, err := readAdminPassword()
	require.NoError(t, err)
	assert.Equal(t, "from-env", pw)
	assert.Zero(t, *calls)
}

func TestReadAdminPassword_Prompt(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	calls := stubTerminal(t, true, "typed", nil)

	pw, err := readAdminPassword()
	require.NoError(t, err)
	assert.Equal(t, "typed", pw)
	assert.Equal(t, 1, *calls)
}

func TestReadAdminPassword_PromptError(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	boom := errors.New("tty closed")
	stubTerminal(t, true, "", boom)

	_, err := readAdminPassword()
	assert.ErrorIs(t, err, boom)
}

func TestReadAdminPassword_NoTerminal(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	calls := stubTerminal(t, false, "typed", nil)

	_, err := readAdminPassword()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a terminal")
	assert.Zero(t, *calls)
}

func TestCreate_RequiresUsername(t *testing.T) {
	calls := stubTerminal(t, true, "typed", nil)

	err := create(context.Background(), config.Config{}, []string{"-u", "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-u is required")
	assert.Zero(t, *calls)
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer
	usage(&buf)
	assert.Contains(t, buf.String(), "admin create -u <username>")
	assert.Contains(t, buf.String(), "admin check")
}
