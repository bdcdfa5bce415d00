// Package viz hosts the stardust field in a terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live field, driven by terminal mouse events
//   - [Canvas]: braille canvas where one logical unit is one dot
//   - Preset menu via [RunInteractive]
//
// The dithered background is sampled one pixel per terminal cell and
// drawn as cell background colours.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Release captured particles
//	T     - Cycle background themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
package viz
