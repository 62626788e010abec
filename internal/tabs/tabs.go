// Package tabs tracks which panel of the page is visible.
package tabs

import (
	"errors"
	"fmt"
)

// ErrUnknownPanel is returned by SwitchTo for names outside the panel set.
var ErrUnknownPanel = errors.New("unknown panel")

// Panel names.
const (
	Home  = "home"
	Docs  = "docs"
	Store = "store"
)

// Panel is one entry of the navigation as rendered.
type Panel struct {
	Name   string
	Label  string
	Active bool
}

var labels = map[string]string{
	Home:  "Home",
	Docs:  "Trade Documents",
	Store: "Store Manager",
}

// Controller keeps exactly one panel active.
type Controller struct {
	names  []string
	active string
}

// New returns a controller over the standard panels with Home active.
func New() *Controller {
	return &Controller{names: []string{Home, Docs, Store}, active: Home}
}

// SwitchTo deactivates every panel and activates name.
// An unknown name leaves the state untouched.
func (c *Controller) SwitchTo(name string) error {
	for _, n := range c.names {
		if n == name {
			c.active = name
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownPanel, name)
}

// Active returns the visible panel.
func (c *Controller) Active() string {
	return c.active
}

// Panels returns every panel with its active flag.
func (c *Controller) Panels() []Panel {
	out := make([]Panel, len(c.names))
	for i, n := range c.names {
		out[i] = Panel{Name: n, Label: labels[n], Active: n == c.active}
	}
	return out
}
