// Package match ranks catalog search results against a wanted title and
// year. Scores combine a Ratcliff/Obershelp title similarity with a year
// proximity boost; the acceptance thresholds used by the sync loop are
// calibrated against this exact scoring curve.
package match
