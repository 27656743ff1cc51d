// Package viz is the terminal view of a running Monte Carlo simulation.
//
// [Model] is a Bubble Tea program that advances an [mc.MonteCarlo] a batch
// of trials per frame and draws the configuration on a braille [Canvas],
// next to the running energy, per-trial acceptance and the drift measured
// by each CheckEnergy modifier.
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	+/-     - More/fewer trials per frame
//	Arrows  - Rotate the view
//	Z/X     - Zoom in/out
//	T       - Cycle color themes
//	?       - Toggle help
//	Q       - Quit
//
// A fatal error from the simulation stops it and is shown in the panel.
package viz
