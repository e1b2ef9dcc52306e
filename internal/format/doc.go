package format

// Package format builds media-source format selector expressions from user
// selections and derives the option menus (resolution, container, audio
// language, subtitles) offered for a resolved video. All functions are pure.
