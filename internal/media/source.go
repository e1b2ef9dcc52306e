package media

import (
	"context"

	"github.com/vidrip/vidrip/internal/model"
)

// ProgressStatus labels a single progress event.
type ProgressStatus string

const (
	StatusDownloading ProgressStatus = "downloading"
	StatusFinished    ProgressStatus = "finished"
	StatusError       ProgressStatus = "error"
)

// ProgressEvent is one observation of an in-flight transfer. TotalBytes is
// exact when the source knows it; TotalBytesEstimate is the fallback; both
// zero means the consumer cannot derive a percent for this event.
type ProgressEvent struct {
	Status             ProgressStatus
	DownloadedBytes    int64
	TotalBytes         int64
	TotalBytesEstimate int64
	Err                error // set only when Status is StatusError, already classified
}

// OutputOptions carries post-processing choices applied by the source's
// transcoder step.
type OutputOptions struct {
	FilenameTemplate string // e.g. "%(title)s.%(ext)s"
	MergeContainer   string // container to merge/convert into, empty to skip
	EmbedThumbnail   bool
	SubtitleLanguage string // language code to burn in, empty for none
}

// DownloadRequest describes one transfer.
type DownloadRequest struct {
	URL            string
	Selector       string // format selector expression, see internal/format
	DestinationDir string
	Output         OutputOptions
}

// Source is the external media collaborator: it resolves URLs to metadata and
// executes transfers, publishing progress as a sequence of events. The event
// channel is closed after the terminal finished or error event; events for a
// single request arrive in emission order.
type Source interface {
	FetchMetadata(ctx context.Context, url string) (*model.VideoMetadata, error)
	Download(ctx context.Context, req DownloadRequest) (<-chan ProgressEvent, error)
}
