// Package textutil provides the title normalization and similarity helpers
// shared by match scoring and filename derivation.
//
// Similarity uses the Ratcliff/Obershelp matching-block ratio rather than an
// edit distance; the sync acceptance thresholds are calibrated against that
// scoring curve.
package textutil
