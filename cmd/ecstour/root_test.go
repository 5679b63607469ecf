package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string) {
	t.Helper()
	t.Setenv("ECSTOUR_LOG_PRETTY", "false")
	t.Setenv("ECSTOUR_TICK_PERIOD", "10ms")

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	require.NoError(t, root.Execute())
	return stdout.String(), stderr.String()
}

func TestList(t *testing.T) {
	out, _ := execute(t, "list")

	for _, name := range []string{"hello", "ecs", "plugin", "resource", "text", "image", "inject", "interpreter"} {
		assert.Contains(t, out, name)
	}
}

func TestRunHeadless(t *testing.T) {
	t.Run("interpreter with report", func(t *testing.T) {
		out, logs := execute(t, "interpreter", "--headless", "--frames", "3", "--report")

		assert.Contains(t, out, "# ecstour report: interpreter")
		assert.Contains(t, out, "**Frames:** 3")
		assert.Contains(t, out, "**ScriptSystem:** 3 runs")
		assert.Contains(t, logs, `"example":"interpreter"`)
		assert.Contains(t, logs, `"message":"stopped"`)
	})

	t.Run("log-only examples never open a window", func(t *testing.T) {
		_, logs := execute(t, "hello", "--frames", "2")
		assert.Contains(t, logs, "Hello, world!")
	})

	t.Run("unknown example", func(t *testing.T) {
		root := newRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"nope"})
		assert.Error(t, root.Execute())
	})

	t.Run("errors are printed once", func(t *testing.T) {
		t.Setenv("ECSTOUR_LOG_LEVEL", "loud")

		var stderr bytes.Buffer
		root := newRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&stderr)
		root.SetArgs([]string{"hello", "--frames", "1"})

		require.Error(t, root.Execute())
		assert.Equal(t, 1, strings.Count(stderr.String(), "failed to validate config"))
		assert.Equal(t, 1, strings.Count(stderr.String(), "Error:"))
	})
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	r := newReport("hello")
	r.Frames = 7
	require.NoError(t, r.Generate(&buf))

	assert.Contains(t, buf.String(), "**Frames:** 7")
	assert.Contains(t, buf.String(), "- none")
}
