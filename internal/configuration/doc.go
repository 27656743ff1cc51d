// Package configuration holds the particles a simulation moves: their sites,
// their types and the bond topology each particle type carries.
//
// It also defines [Group], the type filter that selections use to decide
// which particles and sites a trial may touch.
package configuration
