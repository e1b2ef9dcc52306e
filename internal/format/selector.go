package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vidrip/vidrip/internal/model"
)

// Containers lists the output containers offered to the user, in menu order.
var Containers = []string{"mp4", "webm", "mkv", "avi", "mov", "flv", "3gp", "ogv"}

// BuildSelector produces the media-source format selector for the given user
// choices. The result is an ordered fallback chain: clauses are separated by
// "/" and evaluated left to right, from most faithful to the user's intent to
// always resolvable. The final clause of a height-constrained chain is the
// unconstrained "best", so a selection never fails purely because a particular
// height/container/language combination is missing upstream.
//
// The container value is embedded as-is; callers own validation. An unknown
// container simply never matches and the chain degrades to its later tiers.
func BuildSelector(resolution, container, audioLanguage string) string {
	if IsBestResolution(resolution) {
		if audioLanguage == model.AudioDefault {
			return fmt.Sprintf("best[ext=%s]", container)
		}
		return fmt.Sprintf("best[ext=%s][language=%s]/best[ext=%s]",
			container, audioLanguage, container)
	}

	height := ParseHeight(resolution)
	if audioLanguage == model.AudioDefault {
		return fmt.Sprintf("best[height<=%d][ext=%s]/best[height<=%d]/best[ext=%s]/best",
			height, container, height, container)
	}
	return fmt.Sprintf("best[height<=%d][ext=%s][language=%s]/best[height<=%d][ext=%s]/best[height<=%d]/best[ext=%s]/best",
		height, container, audioLanguage, height, container, height, container)
}

// IsBestResolution reports whether the resolution display string is the
// "best" sentinel. Localized menus render it as a prefix ("best - Best quality").
func IsBestResolution(resolution string) bool {
	return strings.HasPrefix(resolution, model.ResolutionBest)
}

// ParseHeight extracts the pixel height from a "<height>p" display string.
// Returns 0 when no leading digits are present.
func ParseHeight(resolution string) int {
	digits := resolution
	if idx := strings.IndexFunc(resolution, func(r rune) bool {
		return r < '0' || r > '9'
	}); idx >= 0 {
		digits = resolution[:idx]
	}
	h, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return h
}

// IsSupportedContainer reports whether c is one of the known output containers.
// BuildSelector does not call this; selection UIs may.
func IsSupportedContainer(c string) bool {
	for _, known := range Containers {
		if c == known {
			return true
		}
	}
	return false
}
