// Package checklist tracks the pre-visit preparation checklist.
package checklist

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is returned for item indexes outside the list.
var ErrOutOfRange = errors.New("checklist: index out of range")

// DefaultItems is the stock pre-visit list.
var DefaultItems = []string{
	"Review recent lab results",
	"Reconcile medication list",
	"Check imaging reports",
	"Confirm allergies",
	"Update problem list",
}

// Item is one checklist row.
type Item struct {
	Label string
	Done  bool
}

// Checklist is an ordered list of items.
type Checklist struct {
	items []Item
}

// New builds an unchecked list from labels.
func New(labels []string) *Checklist {
	items := make([]Item, len(labels))
	for i, l := range labels {
		items[i] = Item{Label: l}
	}
	return &Checklist{items: items}
}

// Toggle flips item i and returns its new state.
func (c *Checklist) Toggle(i int) (bool, error) {
	if i < 0 || i >= len(c.items) {
		return false, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	c.items[i].Done = !c.items[i].Done
	return c.items[i].Done, nil
}

// Items returns a copy of the rows.
func (c *Checklist) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of rows.
func (c *Checklist) Len() int { return len(c.items) }

// Completed counts checked rows.
func (c *Checklist) Completed() int {
	n := 0
	for _, it := range c.items {
		if it.Done {
			n++
		}
	}
	return n
}

// Percent is the rounded completion percentage. An empty list is 0%.
func (c *Checklist) Percent() int {
	if len(c.items) == 0 {
		return 0
	}
	return int(math.Round(float64(c.Completed()) / float64(len(c.items)) * 100))
}

// ProgressText renders e.g. "2 of 5 completed".
func (c *Checklist) ProgressText() string {
	return fmt.Sprintf("%d of %d completed", c.Completed(), len(c.items))
}
