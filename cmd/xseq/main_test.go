package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	err := execute(context.Background(), cmd, args)
	return out.String(), errOut.String(), err
}

func TestRootCommand_Args(t *testing.T) {
	testcases := []struct {
		name     string
		args     []string
		expected string
	}{
		{"default", []string{"5", "3", "9", "1"}, "args: 1 3 5 9\n"},
		{"desc", []string{"--order", "desc", "5,3", "9", "1"}, "args: 9 5 3 1\n"},
		{"quick", []string{"-s", "quick", "4", "4", "2"}, "args: 2 4 4\n"},
		{"stable", []string{"-s", "stable", "-o", "desc", "1", "2"}, "args: 2 1\n"},
		{"empty", []string{}, "args: \n"},
		{"negative", []string{"4", "3", "-1", "5", "2", "-2"}, "args: -2 -1 2 3 4 5\n"},
		{"negative after flag", []string{"-o", "desc", "-1", "-3,0"}, "args: 0 -1 -3\n"},
		{"double dash", []string{"--", "4", "-1"}, "args: -1 4\n"},
		{"values flag", []string{"--values=-3,9", "-v", "-7,1", "2"}, "args: -7 -3 1 2 9\n"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			out, _, err := executeRoot(tt, tc.args...)
			require.NoError(tt, err)
			assert.Equal(tt, tc.expected, out)
		})
	}
}

func TestRootCommand_InvalidFlags(t *testing.T) {
	_, _, err := executeRoot(t, "--strategy", "bogo", "1")
	require.Error(t, err)
	_, _, err = executeRoot(t, "--order", "sideways", "1")
	require.Error(t, err)
	_, _, err = executeRoot(t, "--metrics", "otlp", "1")
	require.Error(t, err)
	_, _, err = executeRoot(t, "1", "x")
	require.Error(t, err)
}

func TestRootCommand_JobFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jobs:
  - name: first
    values: [3, 1, 2]
  - name: second
    values: [3, 1, 2]
    strategy: quick
    order: desc
  - values: [7, 7, -1]
    strategy: stable
  - name: broken
    values: [1]
    order: sideways
`), 0o644))

	out, _, err := executeRoot(t, "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, "first: 1 2 3\nsecond: 3 2 1\njob-2: -1 7 7\nbroken: failed\n", out)
}

func TestRootCommand_PrometheusMetrics(t *testing.T) {
	out, errOut, err := executeRoot(t, "--metrics", "prometheus", "--log-level", "error", "2", "1")
	require.NoError(t, err)
	assert.Equal(t, "args: 1 2\n", out)
	assert.Contains(t, errOut, "xseq_sorter_elements")
}

func TestParseJobs(t *testing.T) {
	_, err := parseJobs([]byte("jobs: []"))
	require.Error(t, err)
	_, err = parseJobs([]byte("jobs: {"))
	require.Error(t, err)

	jobs, err := parseJobs([]byte("jobs:\n  - values: [1]\n  - name: named\n"))
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "job-0", jobs[0].Name)
	assert.Equal(t, "named", jobs[1].Name)
	assert.Empty(t, jobs[1].Values)
}

func TestLoadJobFile_Missing(t *testing.T) {
	_, err := loadJobFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_Direct(t *testing.T) {
	out := &bytes.Buffer{}
	opts := &options{strategy: "insertion", order: "asc", metrics: "none", logLevel: "error", poolSize: 2}
	err := run(context.Background(), opts, []Job{
		{Name: "a", Values: []int{2, 0, 1}},
		{Name: "b", Values: []int{9, 8}, Order: "desc"},
		{Name: "c", Values: []int{5, 4}},
	}, out, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "a: 0 1 2\nb: 9 8\nc: 4 5\n", out.String())
}

func TestKeepNegativeValues(t *testing.T) {
	flags := newRootCommand().Flags()
	testcases := []struct {
		name     string
		args     []string
		expected []string
	}{
		{"no args", []string{}, []string{}},
		{"flags only", []string{"-s", "quick"}, []string{"-s", "quick"}},
		{"mixed", []string{"3", "-1", "--order", "desc", "-2,4"}, []string{"--order", "desc", "--", "3", "-1", "-2,4"}},
		{"flag value kept", []string{"--pool-size", "-1", "-5"}, []string{"--pool-size", "-1", "--", "-5"}},
		{"inline value", []string{"--order=desc", "-5"}, []string{"--order=desc", "--", "-5"}},
		{"bool flag", []string{"--banner", "-5"}, []string{"--banner", "--", "-5"}},
		{"existing dash", []string{"1", "--", "-s"}, []string{"--", "1", "-s"}},
		{"unknown flag", []string{"-x", "-5"}, []string{"-x", "--", "-5"}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			assert.Equal(tt, tc.expected, keepNegativeValues(flags, tc.args))
		})
	}
}

func TestRootCommand_Banner(t *testing.T) {
	_, errOut, err := executeRoot(t, "--banner", "--log-level", "error", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(errOut, "xseq :: sort and search over immutable sequences"))

	_, errOut, err = executeRoot(t, "--log-level", "error", "1")
	require.NoError(t, err)
	assert.NotContains(t, errOut, "xseq ::")
}

func TestRootCommand_BatchIDLogged(t *testing.T) {
	_, errOut, err := executeRoot(t, "--log-level", "debug", "2", "1")
	require.NoError(t, err)
	assert.Contains(t, errOut, "sort jobs done")
	assert.Contains(t, errOut, `"batch": 1`)
}

func TestRootCommand_AppStatsEveryRun(t *testing.T) {
	for i := 0; i < 2; i++ {
		_, errOut, err := executeRoot(t, "--metrics", "prometheus", "--log-level", "error", "2", "1")
		require.NoError(t, err)
		assert.Contains(t, errOut, "app_core_goroutines")
	}
}
