// Package testbed is a small game used to try the engine out.
package testbed

import (
	"github.com/spaghettifunk/kiln/engine"
)

type Scene struct {
	Spinner  *Spinner
	Backdrop *Backdrop
	HUD      *HUD
}

// Setup adds the testbed components to g.
func Setup(g *engine.Game) (*Scene, error) {
	s := &Scene{Spinner: NewSpinner()}
	s.Backdrop = NewBackdrop(g.Services(), s.Spinner)
	s.HUD = NewHUD(g, s.Spinner)

	for _, c := range []any{s.Spinner, s.Backdrop, s.HUD} {
		if err := g.Add(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}
