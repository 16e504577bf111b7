package core

// Color represents a foreground color for a screen cell.
// The tui package maps each value to an ANSI 256-color style.
type Color uint8

// Predefined colors for board elements.
const (
	ColorDefault Color = iota
	ColorBlockA        // First block color
	ColorBlockB        // Second block color
	ColorMarkedA       // Cells of a detected square waiting for the sweep
	ColorMarkedB
	ColorTimeline // Sweep cursor
	ColorGhost    // Landing preview of the active block
	ColorFrame    // Board border and panels
	ColorText
	ColorDim
	ColorAlert // Paused and game over banners
)
