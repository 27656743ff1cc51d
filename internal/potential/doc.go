// Package potential evaluates configurational energies.
//
// A [Potential] answers two questions about a configuration: its full energy,
// and the energy a selection of sites contributes. Trials use the second to
// compute the change caused by a move without touching the rest of the
// system; the energy checker uses the first to validate the running sum.
//
// Non-bonded interactions come from two-body [Model]s wrapped in a [Pair]
// potential; bonded interactions come from [Bonded], which defers to the bond
// models named on each particle type.
package potential
