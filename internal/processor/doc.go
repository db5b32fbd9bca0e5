// Package processor runs the command-line reading flow: load a category,
// translate the front page when asked, and break selected stories down.
package processor
