package model

// MediaStream describes a single encoded track offered by the media source.
// Streams are owned by the VideoMetadata that produced them and never mutated.
type MediaStream struct {
	Container  string // e.g. "mp4"
	VideoCodec string // "none" or empty when the stream carries no video
	AudioCodec string // "none" or empty when the stream carries no audio
	Height     int    // pixels, 0 when not a video stream
	Language   string // locale/language code, empty when not an audio stream
}

// HasVideo returns true if the stream carries a video track
func (s MediaStream) HasVideo() bool {
	return s.VideoCodec != "" && s.VideoCodec != "none"
}

// HasAudio returns true if the stream carries an audio track
func (s MediaStream) HasAudio() bool {
	return s.AudioCodec != "" && s.AudioCodec != "none"
}

// VideoMetadata is the result of resolving a URL. Immutable after creation.
type VideoMetadata struct {
	Title                string
	ThumbnailURL         string
	Streams              []MediaStream
	DefaultAudioLanguage string
	SubtitleLanguages    []string
}
