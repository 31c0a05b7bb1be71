// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "inspect")
}

func TestRun_InvalidLogFormat(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"run", "--log-format", "xml", "--plugins-dir", t.TempDir()})

	require.Error(t, cmd.Execute())
}

func TestInspect_RejectsNonModule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o600))

	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"inspect", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a loadable module")
}

func TestInspect_RequiresArgument(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"inspect"})

	require.Error(t, cmd.Execute())
}
