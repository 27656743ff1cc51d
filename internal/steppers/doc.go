// Package steppers holds the modifiers a Monte Carlo run invokes on a trial
// schedule: consistency checks, step-size tuning, checkpoints and traces.
//
// Every modifier carries a [Stepper] layer with its schedule. The driver
// asks each modifier's Stepper whether an update is due after every trial,
// and calls Update when it is. Modifiers see the run only through [Host].
package steppers
