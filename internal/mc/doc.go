// Package mc drives a Monte Carlo simulation: it picks weighted trials,
// applies their selection and perturbation, decides acceptance through the
// criteria and runs the scheduled modifiers after every trial.
//
// A MonteCarlo serializes completely, including the random generator state,
// so a run restored with [Read] continues exactly where it was saved.
package mc
