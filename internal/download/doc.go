package download

// Package download implements the task lifecycle over the media source: an
// in-memory queue, one worker goroutine per metadata fetch and per transfer,
// and progress propagation to the UI through update callbacks.
