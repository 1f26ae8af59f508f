//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// binCmd runs the built CLI binary with args, inheriting stdio.
func binCmd(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Ingest builds the CLI and runs the ingestion stage.
func Ingest() error {
	mg.Deps(Build)
	return binCmd("ingest")
}

// Prepare builds the CLI and rebuilds the search snapshot.
func Prepare() error {
	mg.Deps(Build)
	return binCmd("prepare")
}

// Pipeline builds the CLI and runs one full pipeline pass, ingest then
// prepare. Scheduled runs call this target; the scheduler must not overlap
// two invocations.
func Pipeline() error {
	mg.Deps(Build)
	return binCmd("run")
}

// Serve builds the CLI and starts the dashboard.
func Serve() error {
	mg.Deps(Build)
	return binCmd("serve")
}
