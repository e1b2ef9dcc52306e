package format

import (
	"fmt"
	"sort"

	"github.com/vidrip/vidrip/internal/model"
)

// LanguageNamer converts language/locale codes to display names for menus.
type LanguageNamer interface {
	DisplayName(code string) string
}

// ResolutionOptions derives the resolution menu from available streams:
// "best" first, then each distinct video height as "<height>p" in descending
// order.
func ResolutionOptions(streams []model.MediaStream) []string {
	options := []string{model.ResolutionBest}

	seen := make(map[int]struct{})
	var heights []int
	for _, s := range streams {
		if !s.HasVideo() || s.Height <= 0 {
			continue
		}
		if _, ok := seen[s.Height]; ok {
			continue
		}
		seen[s.Height] = struct{}{}
		heights = append(heights, s.Height)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(heights)))
	for _, h := range heights {
		options = append(options, fmt.Sprintf("%dp", h))
	}
	return options
}

// AudioLanguageOptions derives the audio language menu from metadata: the
// "default" sentinel first, then the detected languages as display names with
// the declared default audio language leading and the rest sorted by code.
// When no audio stream declares a language, the menu collapses to the single
// "default" sentinel.
func AudioLanguageOptions(meta *model.VideoMetadata, namer LanguageNamer) []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, s := range meta.Streams {
		if !s.HasAudio() || s.Language == "" {
			continue
		}
		if _, ok := seen[s.Language]; ok {
			continue
		}
		seen[s.Language] = struct{}{}
		codes = append(codes, s.Language)
	}

	if len(codes) == 0 {
		return []string{model.AudioDefault}
	}

	sort.Strings(codes)

	defaultLang := meta.DefaultAudioLanguage
	if defaultLang == "" {
		defaultLang = codes[0]
	}
	if _, ok := seen[defaultLang]; ok {
		ordered := []string{defaultLang}
		for _, c := range codes {
			if c != defaultLang {
				ordered = append(ordered, c)
			}
		}
		codes = ordered
	}

	options := make([]string, 0, len(codes)+1)
	options = append(options, model.AudioDefault)
	for _, c := range codes {
		options = append(options, namer.DisplayName(c))
	}
	return options
}

// SubtitleOptions derives the subtitle menu: the "none" sentinel first, then
// each available subtitle language as a display name.
func SubtitleOptions(meta *model.VideoMetadata, namer LanguageNamer) []string {
	options := []string{model.SubtitlesNone}

	codes := make([]string, len(meta.SubtitleLanguages))
	copy(codes, meta.SubtitleLanguages)
	sort.Strings(codes)

	for _, c := range codes {
		options = append(options, namer.DisplayName(c))
	}
	return options
}

// DefaultSelection returns the selection populated when a task becomes Ready:
// first resolution option, first container, default audio, no subtitles.
func DefaultSelection(meta *model.VideoMetadata) *model.SelectionState {
	return &model.SelectionState{
		Resolution:       ResolutionOptions(meta.Streams)[0],
		Container:        Containers[0],
		AudioLanguage:    model.AudioDefault,
		SubtitleLanguage: model.SubtitlesNone,
	}
}
