package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "deploy")
	assert.Contains(t, names, "destroy")
	assert.Contains(t, names, "update-config")
}

func TestDestroyRemovesStackByDefault(t *testing.T) {
	root := newRootCmd()
	destroy, _, err := root.Find([]string{"destroy"})
	require.NoError(t, err)

	keep := destroy.Flags().Lookup("keep-stack")
	require.NotNil(t, keep)
	assert.Equal(t, "false", keep.DefValue)
}

func TestSubcommandsFailFastWithoutPrereqs(t *testing.T) {
	// An empty PATH makes the pulumi binary lookup fail, so every
	// subcommand must bail out with the prerequisite message before
	// touching the stack or AWS.
	t.Setenv("PATH", "")

	for _, args := range [][]string{
		{"deploy"},
		{"destroy"},
		{"update-config", "--feature-x=true"},
	} {
		t.Run(args[0], func(t *testing.T) {
			root := newRootCmd()
			root.SetOut(new(bytes.Buffer))
			root.SetErr(new(bytes.Buffer))
			root.SetArgs(args)

			err := root.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "pulumi binary not found in PATH")
		})
	}
}

func TestRootCommandRejectsUnknownSubcommand(t *testing.T) {
	root := newRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"frobnicate"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frobnicate")
}
