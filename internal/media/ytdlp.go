package media

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/vidrip/vidrip/internal/model"
)

// Probe and transfer tuning
const (
	DefaultProbeTimeout  = 30 * time.Second
	ProgressInterval     = 500 * time.Millisecond
	metadataRetries      = 2
	metadataRetryBudget  = 45 * time.Second // backoff window across retries, excludes the attempt in flight
	progressEventsBuffer = 32
)

// Containers yt-dlp can merge split audio/video streams into.
var mergeContainers = map[string]struct{}{
	"mp4":  {},
	"mkv":  {},
	"webm": {},
}

// YTDLPSource implements Source on top of the yt-dlp wrapper. One instance is
// shared by all tasks; every call spawns its own yt-dlp process.
type YTDLPSource struct {
	ffmpegPath   string // empty means yt-dlp resolves ffmpeg from PATH itself
	probeTimeout time.Duration
	logger       *zap.Logger
}

// NewYTDLPSource creates a media source. ffmpegPath may be empty.
func NewYTDLPSource(ffmpegPath string, logger *zap.Logger) *YTDLPSource {
	return &YTDLPSource{
		ffmpegPath:   ffmpegPath,
		probeTimeout: DefaultProbeTimeout,
		logger:       logger,
	}
}

// FetchMetadata resolves a URL to its metadata via a skip-download probe.
// Transient network failures are retried with exponential backoff; classified
// non-network failures are permanent.
func (s *YTDLPSource) FetchMetadata(ctx context.Context, url string) (*model.VideoMetadata, error) {
	var meta *model.VideoMetadata

	operation := func() error {
		probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
		defer cancel()

		dl := ytdlp.New().
			SkipDownload().
			NoPlaylist().
			NoWarnings().
			DumpSingleJSON()

		result, err := dl.Run(probeCtx, url)
		if err != nil {
			classified := Classify(err)
			s.logger.Warn("metadata probe failed",
				zap.String("url", url),
				zap.Error(classified))
			if errors.Is(classified, ErrNetwork) {
				return classified
			}
			return backoff.Permanent(classified)
		}

		meta, err = parseProbe([]byte(result.Stdout))
		if err != nil {
			return backoff.Permanent(Classify(err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = metadataRetryBudget
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, metadataRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return meta, nil
}

// Download starts a transfer and returns its progress event stream. The
// channel is closed after the terminal event. The transfer itself is not
// cancellable beyond ctx; abandoning the channel does not stop it.
func (s *YTDLPSource) Download(ctx context.Context, req DownloadRequest) (<-chan ProgressEvent, error) {
	if req.URL == "" || req.Selector == "" {
		return nil, errors.New("download request needs url and selector")
	}

	template := req.Output.FilenameTemplate
	if template == "" {
		template = "%(title)s.%(ext)s"
	}

	dl := ytdlp.New().
		Format(req.Selector).
		Output(req.DestinationDir + "/" + template).
		ForceOverwrites().
		RestrictFilenames().
		NoPlaylist()

	if s.ffmpegPath != "" {
		dl = dl.FFmpegLocation(s.ffmpegPath)
	}
	if req.Output.EmbedThumbnail {
		dl = dl.WriteThumbnail().EmbedThumbnail()
	}
	if _, ok := mergeContainers[req.Output.MergeContainer]; ok {
		dl = dl.MergeOutputFormat(req.Output.MergeContainer)
	}
	if req.Output.SubtitleLanguage != "" {
		dl = dl.WriteSubs().
			WriteAutoSubs().
			SubLangs(req.Output.SubtitleLanguage).
			ConvertSubs("srt")
	}

	events := make(chan ProgressEvent, progressEventsBuffer)

	dl.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
		event := ProgressEvent{
			Status:          StatusDownloading,
			DownloadedBytes: int64(update.DownloadedBytes),
			TotalBytes:      int64(update.TotalBytes),
		}
		select {
		case events <- event:
		default:
			// A slow consumer loses intermediate events, never the terminal one.
		}
	})

	go func() {
		defer close(events)

		_, err := dl.Run(ctx, req.URL)
		if err != nil {
			classified := Classify(err)
			s.logger.Error("download failed",
				zap.String("url", req.URL),
				zap.String("selector", req.Selector),
				zap.Error(classified))
			events <- ProgressEvent{Status: StatusError, Err: classified}
			return
		}
		events <- ProgressEvent{Status: StatusFinished}
	}()

	return events, nil
}
