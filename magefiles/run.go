//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed in a desktop window.
func (Run) Engine() error {
	fmt.Println("Run engine...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "kiln.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the testbed without a window.
func (Run) Headless() error {
	mg.Deps(Build.Testbed)
	fmt.Println("Run headless engine...")
	if _, err := executeCmd("bin/kiln", withArgs("-config", "kiln.toml", "-headless"), withStream()); err != nil {
		return err
	}
	return nil
}
