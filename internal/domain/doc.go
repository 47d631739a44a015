// Package domain holds the sentinel errors shared by the bridge, its
// lifecycle and the command line front end.
package domain
