// Package carousel tracks the state of a two-pane swipeable view: which view
// is active and how the height is split between the upper and lower panes.
package carousel

import (
	"fmt"
	"math"
)

const (
	MinRatio     = 0.1
	MaxRatio     = 0.9
	RatioStep    = 0.01
	DefaultRatio = 0.5
)

// Carousel holds the active view index and the split ratio.
// Gestures and dot clicks are translated into Go, Next or Prev by the caller.
type Carousel struct {
	views  int
	active int
	ratio  float64
}

// New returns a carousel over views panes, starting on the first one
func New(views int) *Carousel {
	if views < 1 {
		views = 1
	}
	return &Carousel{views: views, ratio: DefaultRatio}
}

// Views is the number of panes
func (c *Carousel) Views() int { return c.views }

// Active is the index of the visible pane
func (c *Carousel) Active() int { return c.active }

// Ratio is the share of the height given to the upper pane
func (c *Carousel) Ratio() float64 { return c.ratio }

// Go jumps to index, clamped to the available views. It reports whether the active view changed.
func (c *Carousel) Go(index int) bool {
	index = max(0, min(index, c.views-1))
	if index == c.active {
		return false
	}
	c.active = index
	return true
}

// Next moves one view to the right, stopping at the last
func (c *Carousel) Next() bool { return c.Go(c.active + 1) }

// Prev moves one view to the left, stopping at the first
func (c *Carousel) Prev() bool { return c.Go(c.active - 1) }

// SetRatio clamps r into [MinRatio, MaxRatio] and snaps it to RatioStep
func (c *Carousel) SetRatio(r float64) {
	if math.IsNaN(r) {
		return
	}
	r = math.Round(r/RatioStep) * RatioStep
	c.ratio = math.Max(MinRatio, math.Min(MaxRatio, r))
}

// Nudge moves the ratio by steps increments of RatioStep
func (c *Carousel) Nudge(steps int) {
	c.SetRatio(c.ratio + float64(steps)*RatioStep)
}

// Percentages returns the rounded upper and lower shares
func (c *Carousel) Percentages() (upper, lower int) {
	return int(math.Round(c.ratio * 100)), int(math.Round((1 - c.ratio) * 100))
}

// Label renders the slider caption
func (c *Carousel) Label() string {
	upper, lower := c.Percentages()
	return fmt.Sprintf("Upper: %d%% | Lower: %d%%", upper, lower)
}

// Split divides height rows between the upper and lower panes
func (c *Carousel) Split(height int) (upper, lower int) {
	if height <= 0 {
		return 0, 0
	}
	upper = int(math.Round(float64(height) * c.ratio))
	return upper, height - upper
}
