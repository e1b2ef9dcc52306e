package platform

// Package platform contains OS integration and external tooling glue:
// filesystem helpers, filename sanitizing, URL validation, and locating
// the bundled ffmpeg binaries.
