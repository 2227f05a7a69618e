//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds and runs the viewer with houseview.toml from the working directory.
func (Run) Viewer() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run viewer...")
	if _, err := executeCmd("./bin/"+binaryName, withArgs("houseview.toml"), withStream()); err != nil {
		return err
	}
	return nil
}
