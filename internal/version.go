package internal

// Version is the application version, overridable at build time via -ldflags.
var Version = "0.1.0"
