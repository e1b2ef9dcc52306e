package model

import (
	"strings"
	"time"
)

// Sentinel values for user selections
const (
	ResolutionBest = "best"
	AudioDefault   = "default"
	SubtitlesNone  = "none"
)

// SelectionState holds the user's four choices for one task. It lives for
// the lifetime of the queue entry and is populated once metadata arrives.
type SelectionState struct {
	Resolution       string // ResolutionBest or a "<height>p" display string
	Container        string
	AudioLanguage    string // AudioDefault or a language/locale code
	SubtitleLanguage string // SubtitlesNone or a language/locale code
}

// DownloadTask represents a single queue entry
type DownloadTask struct {
	ID            string
	URL           string
	Metadata      *VideoMetadata  // nil until metadata loaded
	Selection     *SelectionState // nil iff state is LoadingMetadata or MetadataFailed
	State         TaskState
	Percent       int // 0 to 100
	StatusMessage string
	LastError     string
	StartedAt     time.Time // when the task was added
	FinishedAt    time.Time // when the download finished or failed
}

// GetDisplayTitle returns the video title, falling back to the URL while
// metadata has not resolved yet
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Metadata != nil && dt.Metadata.Title != "" && !strings.HasPrefix(dt.Metadata.Title, "http") {
		return dt.Metadata.Title
	}
	return dt.URL
}

// AdvancePercent raises Percent to p if p is larger. Progress within a single
// attempt is monotonic; a stale or regressing event is dropped. Returns true
// if Percent changed.
func (dt *DownloadTask) AdvancePercent(p int) bool {
	if p < 0 {
		return false
	}
	if p > 100 {
		p = 100
	}
	if p <= dt.Percent {
		return false
	}
	dt.Percent = p
	return true
}

// ResetProgress starts a new attempt: the monotonicity window restarts at zero
func (dt *DownloadTask) ResetProgress() {
	dt.Percent = 0
	dt.FinishedAt = time.Time{}
}
