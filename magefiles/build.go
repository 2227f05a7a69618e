//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const binaryName = "houseview"

// Downloads the modules and builds the viewer into bin/.
func (Build) Binary() error {
	if err := downloadModules(); err != nil {
		return err
	}
	out := filepath.Join("bin", binaryName)
	fmt.Printf("Building %s...\n", out)
	if _, err := executeCmd("go", withArgs("build", "-o", out, "."), withStream()); err != nil {
		return err
	}
	return nil
}
