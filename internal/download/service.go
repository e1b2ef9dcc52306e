package download

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vidrip/vidrip/internal/format"
	"github.com/vidrip/vidrip/internal/lang"
	"github.com/vidrip/vidrip/internal/media"
	"github.com/vidrip/vidrip/internal/model"
	"github.com/vidrip/vidrip/internal/platform"
)

// Service owns the in-memory task queue and runs the per-task lifecycle:
// LoadingMetadata -> Ready -> Downloading -> Completed, with MetadataFailed
// and DownloadFailed exits. One worker goroutine per metadata fetch and per
// download; observable state changes flow through the update callback.
type Service struct {
	tasks      map[string]*model.DownloadTask
	order      []string // queue order, oldest first
	tasksMutex sync.RWMutex

	source      media.Source
	resolver    *lang.Resolver
	downloadDir string
	logger      *zap.Logger

	onUpdate func(*model.DownloadTask)
	onRemove func(*model.DownloadTask, error)
}

// NewService creates a download service over the given media source.
func NewService(source media.Source, resolver *lang.Resolver, downloadDir string, logger *zap.Logger) *Service {
	return &Service{
		tasks:       make(map[string]*model.DownloadTask),
		source:      source,
		resolver:    resolver,
		downloadDir: downloadDir,
		logger:      logger,
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.onUpdate = callback
}

// SetRemoveCallback sets the callback for metadata-failure evictions
func (s *Service) SetRemoveCallback(callback func(*model.DownloadTask, error)) {
	s.onRemove = callback
}

// SetDownloadDirectory sets the destination folder for future downloads
func (s *Service) SetDownloadDirectory(dir string) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.downloadDir = dir
}

// GetDownloadDirectory returns the current destination folder
func (s *Service) GetDownloadDirectory() string {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return s.downloadDir
}

// AddTask creates a queue entry for a URL and starts resolving its metadata
func (s *Service) AddTask(url string) (*model.DownloadTask, error) {
	s.tasksMutex.Lock()

	for _, task := range s.tasks {
		if task.URL == url && !task.State.IsTerminal() {
			s.tasksMutex.Unlock()
			return nil, fmt.Errorf("task already exists for URL: %s", url)
		}
	}

	task := &model.DownloadTask{
		ID:        uuid.NewString(),
		URL:       url,
		State:     model.TaskStateLoadingMetadata,
		StartedAt: time.Now(),
	}
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)

	// Snapshot before the worker starts writing
	snapshot := *task
	go s.loadMetadata(task)

	return &snapshot, nil
}

// GetTask returns a snapshot of a task by ID. State and progress fields are
// copied under the lock so callers never observe a worker's write in flight;
// the Selection pointer is shared, so menu edits reach the queue entry.
func (s *Service) GetTask(id string) (*model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return nil, false
	}
	snapshot := *task
	return &snapshot, true
}

// GetAllTasks returns snapshots of all tasks in queue order
func (s *Service) GetAllTasks() []*model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.DownloadTask, 0, len(s.order))
	for _, id := range s.order {
		if task, ok := s.tasks[id]; ok {
			snapshot := *task
			tasks = append(tasks, &snapshot)
		}
	}
	return tasks
}

// StartDownload begins or retries the transfer for one task
func (s *Service) StartDownload(id string) error {
	s.tasksMutex.Lock()

	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("task not found: %s", id)
	}
	if !task.State.CanDownload() {
		s.tasksMutex.Unlock()
		return fmt.Errorf("task %s cannot download from state %s", id, task.State)
	}

	task.State = model.TaskStateDownloading
	task.LastError = ""
	task.StatusMessage = ""
	task.ResetProgress()

	req := s.buildRequest(task)
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
	go s.runDownload(task, req)

	return nil
}

// StartAll starts every task currently able to download
func (s *Service) StartAll() int {
	started := 0
	for _, task := range s.GetAllTasks() {
		if task.State.CanDownload() {
			if err := s.StartDownload(task.ID); err == nil {
				started++
			}
		}
	}
	return started
}

// RemoveTask drops a task from the queue. A running worker keeps going in the
// background; its updates refer to a task no longer in the queue.
func (s *Service) RemoveTask(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	return s.removeLocked(id)
}

// Clear empties the queue
func (s *Service) Clear() {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	s.tasks = make(map[string]*model.DownloadTask)
	s.order = nil
}

func (s *Service) removeLocked(id string) error {
	if _, exists := s.tasks[id]; !exists {
		return fmt.Errorf("task not found: %s", id)
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// loadMetadata is the metadata-fetch worker for one task
func (s *Service) loadMetadata(task *model.DownloadTask) {
	meta, err := s.source.FetchMetadata(context.Background(), task.URL)

	s.tasksMutex.Lock()
	if err != nil {
		task.State = model.TaskStateMetadataFailed
		task.LastError = err.Error()
		// A failed fetch leaves no partial entry behind.
		s.removeLocked(task.ID)
		s.tasksMutex.Unlock()

		s.logger.Warn("metadata fetch failed",
			zap.String("task", task.ID),
			zap.String("url", task.URL),
			zap.Error(err))
		s.notifyRemove(task, err)
		return
	}

	task.Metadata = meta
	task.Selection = format.DefaultSelection(meta)
	task.State = model.TaskStateReady
	s.tasksMutex.Unlock()

	s.logger.Info("metadata resolved",
		zap.String("task", task.ID),
		zap.String("title", meta.Title),
		zap.Int("streams", len(meta.Streams)))
	s.notifyUpdate(task)
}

// buildRequest snapshots the selection into a media request. Caller holds the lock.
func (s *Service) buildRequest(task *model.DownloadTask) media.DownloadRequest {
	sel := task.Selection

	// Menus hold display names; the source speaks codes.
	audio := sel.AudioLanguage
	if audio != model.AudioDefault {
		audio = s.resolver.CodeFor(audio)
	}
	subtitle := ""
	if sel.SubtitleLanguage != model.SubtitlesNone {
		subtitle = s.resolver.CodeFor(sel.SubtitleLanguage)
	}

	template := "%(title)s.%(ext)s"
	if task.Metadata != nil && task.Metadata.Title != "" {
		template = platform.SanitizeFilename(task.Metadata.Title) + ".%(ext)s"
	}

	merge := ""
	if format.IsSupportedContainer(sel.Container) {
		merge = sel.Container
	}

	return media.DownloadRequest{
		URL:            task.URL,
		Selector:       format.BuildSelector(sel.Resolution, sel.Container, audio),
		DestinationDir: s.downloadDir,
		Output: media.OutputOptions{
			FilenameTemplate: template,
			MergeContainer:   merge,
			EmbedThumbnail:   true,
			SubtitleLanguage: subtitle,
		},
	}
}

// runDownload is the transfer worker for one task: it consumes the progress
// event stream until the terminal event
func (s *Service) runDownload(task *model.DownloadTask, req media.DownloadRequest) {
	events, err := s.source.Download(context.Background(), req)
	if err != nil {
		s.failDownload(task, err)
		return
	}

	for event := range events {
		switch event.Status {
		case media.StatusDownloading:
			s.applyProgress(task, event)
		case media.StatusFinished:
			s.completeDownload(task)
		case media.StatusError:
			s.failDownload(task, event.Err)
		}
	}
}

// applyProgress updates the percent from one downloading event. Events with
// no usable total are ignored; the task stays Downloading with its last value.
func (s *Service) applyProgress(task *model.DownloadTask, event media.ProgressEvent) {
	total := event.TotalBytes
	if total <= 0 {
		total = event.TotalBytesEstimate
	}
	if total <= 0 {
		return
	}

	percent := int(event.DownloadedBytes * 100 / total)

	s.tasksMutex.Lock()
	changed := task.State == model.TaskStateDownloading && task.AdvancePercent(percent)
	s.tasksMutex.Unlock()

	if changed {
		s.notifyUpdate(task)
	}
}

func (s *Service) completeDownload(task *model.DownloadTask) {
	s.tasksMutex.Lock()
	task.State = model.TaskStateCompleted
	task.Percent = 100
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	s.logger.Info("download completed", zap.String("task", task.ID))
	s.notifyUpdate(task)
}

func (s *Service) failDownload(task *model.DownloadTask, err error) {
	s.tasksMutex.Lock()
	task.State = model.TaskStateDownloadFailed
	if err != nil {
		task.LastError = err.Error()
	}
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	s.logger.Error("download failed",
		zap.String("task", task.ID),
		zap.Error(err))
	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback with a snapshot taken under the
// lock, so the observer never races a later write from another worker.
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	if s.onUpdate == nil {
		return
	}
	s.tasksMutex.RLock()
	snapshot := *task
	s.tasksMutex.RUnlock()
	s.onUpdate(&snapshot)
}

func (s *Service) notifyRemove(task *model.DownloadTask, err error) {
	if s.onRemove == nil {
		return
	}
	snapshot := *task // evicted, no worker writes it anymore
	s.onRemove(&snapshot, err)
}
