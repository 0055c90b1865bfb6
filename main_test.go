package main

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithConfig(t, filepath.Join(t.TempDir(), "config.yaml"), args...)
}

func executeWithConfig(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", path))
	err := rootCmd.Execute()
	return out.String(), err
}

// writeBrokenConfig writes a config file that fails validation
func writeBrokenConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("precision: 99\n"), 0o644))
	return path
}

func TestSolveCommand(t *testing.T) {
	out, err := execute(t, "solve", "--first", "3", "--nth", "24", "--index", "4", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "The common ratio (r) is **2.000000**.")
	assert.Contains(t, out, "### Verification")
}

func TestSolveCommandUnsolvable(t *testing.T) {
	out, err := execute(t, "solve", "--first", "0", "--nth", "0", "--index", "3", "--plain")
	assert.ErrorIs(t, err, errUnsolvable)
	assert.Contains(t, out, "Error: the ratio cannot be determined")
}

func TestSolveCommandRejectsNonFiniteTerms(t *testing.T) {
	for _, args := range [][]string{
		{"--first", "Inf", "--nth", "2"},
		{"--first", "1", "--nth", "NaN"},
		{"--first", "-Inf", "--nth", "-Inf"},
	} {
		_, err := execute(t, append([]string{"solve", "--index", "3", "--plain"}, args...)...)
		require.Error(t, err, args)
		assert.NotErrorIs(t, err, errUnsolvable)
		assert.Contains(t, err.Error(), "must be a finite number")
	}
}

func TestSolveCommandTerminalRendering(t *testing.T) {
	out, err := execute(t, "solve", "--first", "1", "--nth", "2", "--index", "2", "--plain=false")
	require.NoError(t, err)
	assert.Contains(t, out, "2.000000")
	assert.Contains(t, out, "Verification")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "precision: 6")

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	assert.Error(t, rootCmd.Execute())
}

func TestVersionFlag(t *testing.T) {
	t.Cleanup(func() { showVersion = false })

	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Geometric Ratio Calculator v%s\n", version), out)
}

func TestBrokenConfig(t *testing.T) {
	t.Run("show reports it", func(t *testing.T) {
		_, err := executeWithConfig(t, writeBrokenConfig(t), "config", "show")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "precision 99 out of range")
	})

	t.Run("version ignores it", func(t *testing.T) {
		t.Cleanup(func() { showVersion = false })

		out, err := executeWithConfig(t, writeBrokenConfig(t), "--version")
		require.NoError(t, err)
		assert.Contains(t, out, "Geometric Ratio Calculator v")
	})

	t.Run("init --force replaces it", func(t *testing.T) {
		t.Cleanup(func() { configForce = false })

		path := writeBrokenConfig(t)
		_, err := executeWithConfig(t, path, "config", "init", "--force")
		require.NoError(t, err)

		_, err = executeWithConfig(t, path, "config", "show")
		require.NoError(t, err)
	})
}

func TestFindAvailablePort(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	busy := ln.Addr().(*net.TCPAddr).Port
	got, err := findAvailablePort(busy, 5)
	require.NoError(t, err)
	assert.NotEqual(t, busy, got)
	assert.Greater(t, got, busy)

	_, err = findAvailablePort(busy, 1)
	assert.Error(t, err)
}

func TestWaitForServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	require.NoError(t, waitForServer(addr, time.Second))

	require.NoError(t, ln.Close())
	assert.Error(t, waitForServer(addr, 200*time.Millisecond))
}
