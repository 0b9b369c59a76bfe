package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup creates a test tree with one test file and chdirs away from any
// real .tmx.yaml. Not parallel: mutates working directory and environment.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, name := range []string{"CI", "TMX_CI", "TMX_DEBUG"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample_test.tox"), []byte("test"), 0o644))
	return dir
}

func TestRun_When_ToolchainUnavailable(t *testing.T) {
	dir := setup(t)

	var stdout, stderr bytes.Buffer
	// The default toolchain binary does not exist, so every run degrades
	// to a spawn-failure Fail; the baseline combination makes that fatal.
	code := run([]string{"-dir", dir}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "fatal failure")
	assert.Contains(t, stderr.String(), "command:")
	assert.Contains(t, stdout.String(), "fail", "final table printed")
}

func TestRun_When_NoTestFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-dir", dir}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr.String(), "no _test.tox files")
}

func TestRun_When_UnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-definitely-not-a-flag"}, &stdout, &stderr)
	assert.Equal(t, 2, code)
}

func TestRun_When_JSONArtifactRequested(t *testing.T) {
	dir := setup(t)
	artifact := filepath.Join(dir, "results.json")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-dir", dir, "-json", artifact}, &stdout, &stderr)
	assert.Equal(t, 1, code)

	raw, err := os.ReadFile(artifact)
	require.NoError(t, err)

	var doc struct {
		Results []struct {
			Test   string `json:"test"`
			Status string `json:"status"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.NotEmpty(t, doc.Results)
	for _, r := range doc.Results {
		assert.Equal(t, "sample_test.tox", r.Test)
	}
}

func TestRun_When_WorkDirsCleanedUp(t *testing.T) {
	dir := setup(t)

	var stdout, stderr bytes.Buffer
	run([]string{"-dir", dir}, &stdout, &stderr)

	_, err := os.Stat(filepath.Join(dir, ".tmx-cache"))
	assert.True(t, os.IsNotExist(err), "cache tree removed at exit")
}
