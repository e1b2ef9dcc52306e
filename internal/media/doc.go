package media

// Package media wraps the external video extraction tool behind the Source
// interface: URL metadata probes and transfers with a progress event stream.
// Failures surface as classified sentinel errors, never raw tool output.
