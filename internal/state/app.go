package state

import (
	"fmt"
	"maps"
	"slices"

	"github.com/powerhive/rackview/pkg/miner"
)

// Modal identifies the dialog currently shown, with its arguments.
type Modal struct {
	Name  string         `json:"name"`
	Props map[string]any `json:"props,omitempty"`
}

// WindowStyle is a free-form style document for the current window.
type WindowStyle map[string]any

// App is the application state. The composition root creates one and hands
// it to whatever needs to read or change it.
type App struct {
	Modal       *Cell[*Modal]
	WindowStyle *Cell[WindowStyle]
	Settings    *Cell[Settings]
	Pools       *Cell[[]miner.Pool]
}

// New creates the application state with the given settings. Use
// DefaultSettings when nothing is configured.
func New(settings Settings) *App {
	return &App{
		Modal:       NewCell[*Modal](nil),
		WindowStyle: NewCell(WindowStyle{}),
		Settings:    NewCell(settings),
		Pools:       NewCell([]miner.Pool{}),
	}
}

// OpenModal replaces any active modal.
func (a *App) OpenModal(name string, props map[string]any) {
	a.Modal.Set(&Modal{Name: name, Props: maps.Clone(props)})
}

// CloseModal clears the active modal.
func (a *App) CloseModal() {
	a.Modal.Set(nil)
}

// SetStyle replaces the window style.
func (a *App) SetStyle(style WindowStyle) {
	a.WindowStyle.Set(maps.Clone(style))
}

// SetSettings validates and stores new settings.
func (a *App) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	a.Settings.Set(s)
	return nil
}

// SetPools replaces the known pool list.
func (a *App) SetPools(pools []miner.Pool) {
	a.Pools.Set(slices.Clone(pools))
}

// AddPool appends a pool at the lowest priority.
func (a *App) AddPool(p miner.Pool) {
	a.Pools.Update(func(cur []miner.Pool) []miner.Pool {
		next := make([]miner.Pool, 0, len(cur)+1)
		return append(append(next, cur...), p)
	})
}

// RemovePool drops the pool at index i.
func (a *App) RemovePool(i int) error {
	var err error
	a.Pools.Update(func(cur []miner.Pool) []miner.Pool {
		if i < 0 || i >= len(cur) {
			err = fmt.Errorf("pool index %d out of range", i)
			return cur
		}
		return slices.Delete(slices.Clone(cur), i, i+1)
	})
	return err
}

// MovePool changes the priority of a pool by moving it from one index to
// another.
func (a *App) MovePool(from, to int) error {
	var err error
	a.Pools.Update(func(cur []miner.Pool) []miner.Pool {
		if from < 0 || from >= len(cur) || to < 0 || to >= len(cur) {
			err = fmt.Errorf("pool move %d -> %d out of range", from, to)
			return cur
		}
		next := slices.Clone(cur)
		p := next[from]
		next = slices.Delete(next, from, from+1)
		return slices.Insert(next, to, p)
	})
	return err
}
