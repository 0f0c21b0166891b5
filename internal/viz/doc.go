// Package viz renders simulations in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - [Model]: interactive Bubble Tea viewer around one simulation
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scene from its seed
//	Tab   - Cycle scenes
//	M     - Toggle iterative/matrix solver
//	G     - Save an SVG snapshot to the current directory
//	K     - Kick particles away from the view center
//	Q     - Quit
//
// Clicking the canvas kicks particles away from the clicked point; run
// the program with mouse cell motion enabled for that to arrive.
package viz
