package media

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/vidrip/vidrip/internal/model"
)

// probeInfo mirrors the slice of the yt-dlp single-json dump this app reads.
type probeInfo struct {
	Title             string                     `json:"title"`
	Thumbnail         string                     `json:"thumbnail"`
	Language          string                     `json:"language"`
	Formats           []probeFormat              `json:"formats"`
	Subtitles         map[string]json.RawMessage `json:"subtitles"`
	AutomaticCaptions map[string]json.RawMessage `json:"automatic_captions"`
}

type probeFormat struct {
	Ext      string `json:"ext"`
	VCodec   string `json:"vcodec"`
	ACodec   string `json:"acodec"`
	Height   *int   `json:"height"`
	Language string `json:"language"`
}

// parseProbe converts a single-json metadata dump into the domain model.
func parseProbe(data []byte) (*model.VideoMetadata, error) {
	var info probeInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse metadata dump: %w", err)
	}

	streams := make([]model.MediaStream, 0, len(info.Formats))
	for _, f := range info.Formats {
		s := model.MediaStream{
			Container:  f.Ext,
			VideoCodec: f.VCodec,
			AudioCodec: f.ACodec,
			Language:   f.Language,
		}
		if f.Height != nil {
			s.Height = *f.Height
		}
		streams = append(streams, s)
	}

	meta := &model.VideoMetadata{
		Title:                info.Title,
		ThumbnailURL:         info.Thumbnail,
		Streams:              streams,
		DefaultAudioLanguage: info.Language,
		SubtitleLanguages:    sortedLanguageKeys(info.Subtitles),
	}

	// Without a declared language, the first automatic-caption track is the
	// best default hint available.
	if meta.DefaultAudioLanguage == "" {
		if captions := sortedLanguageKeys(info.AutomaticCaptions); len(captions) > 0 {
			meta.DefaultAudioLanguage = captions[0]
		}
	}

	return meta, nil
}

func sortedLanguageKeys(m map[string]json.RawMessage) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
