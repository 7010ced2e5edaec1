package gametime

import (
	"fmt"
	"sync"
)

const (
	// Time constants
	SecondsPerMinute = 60
	SecondsPerHour   = 3600
	MinutesPerHour   = 60
)

// SimClock tracks simulated seconds for an offline run. It never moves backwards.
type SimClock struct {
	elapsed float64
	mu      sync.RWMutex
}

func NewSimClock() *SimClock {
	return &SimClock{}
}

// Advance moves the clock forward by seconds. Non-positive advances are ignored.
func (c *SimClock) Advance(seconds float64) {
	if !(seconds > 0) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elapsed += seconds
}

// Seconds returns the total simulated seconds.
func (c *SimClock) Seconds() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.elapsed
}

// Minutes returns the elapsed time in fractional minutes.
func (c *SimClock) Minutes() float64 {
	return c.Seconds() / SecondsPerMinute
}

// Hours returns the elapsed time in fractional hours.
func (c *SimClock) Hours() float64 {
	return c.Seconds() / SecondsPerHour
}

// WholeMinutes returns the number of completed minutes.
func (c *SimClock) WholeMinutes() int {
	return int(c.Minutes())
}

// String returns a short clock reading (e.g., "2h05m" or "12.5m")
func (c *SimClock) String() string {
	return FormatDuration(c.Seconds())
}

// FormatDuration renders simulated seconds as hours and minutes.
// Durations under an hour are shown in fractional minutes.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < SecondsPerHour {
		return fmt.Sprintf("%.1fm", seconds/SecondsPerMinute)
	}
	totalMinutes := int(seconds / SecondsPerMinute)
	return fmt.Sprintf("%dh%02dm", totalMinutes/MinutesPerHour, totalMinutes%MinutesPerHour)
}
