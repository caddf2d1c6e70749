//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the testbed binary into bin/.
func (Build) Testbed() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/kiln", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go mod tidy and go vet.
func (Build) Tidy() error {
	return goTidy()
}

// Runs the unit tests of every package.
func Test() error {
	if _, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
