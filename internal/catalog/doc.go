// Package catalog talks to the Einthusan content catalog: free-text search
// within one language partition, resolution of a watch page into direct media
// URLs via the provider's AJAX protocol, and decoding of the obfuscated link
// payload.
//
// All requests share one Client so cookie state stays affine to a single
// logical session. Calls are serialized and rate limited as a politeness
// constraint against the provider.
package catalog
