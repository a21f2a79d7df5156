package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunWithNoArgsSucceeds(t *testing.T) {
	assert.Equal(t, 0, run(nil))
}

func TestRunWithMissingFileFails(t *testing.T) {
	assert.Equal(t, 1, run([]string{"/nonexistent/path/input.cm"}))
}

func TestRunCompilesValidSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.cm")
	assert.NoError(t, os.WriteFile(path, []byte("fn f() { let x: i64 = 42; }"), 0o644))

	assert.Equal(t, 0, run([]string{"-fingerprint", path}))
}
