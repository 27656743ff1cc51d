// Package mcsim holds the shared vocabulary of the Monte Carlo engine:
// the error taxonomy every layer reports through and the debug logger the
// hot paths trace into.
//
// Errors fall into four families, all terminal for the run that raised them:
//
//   - [ConfigError]: a missing, malformed or unsupported argument
//   - [VersionError] and [ErrUnregistered]: a checkpoint stream that cannot
//     be read back exactly
//   - [SamplingExhaustedError]: a bounded rejection sampler ran out of attempts
//   - [EnergyDriftError]: the running energy diverged from a full recompute
//
// Nothing in the engine retries or recovers from these; the driver stops and
// reports.
package mcsim
