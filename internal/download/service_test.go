package download

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vidrip/vidrip/internal/format"
	"github.com/vidrip/vidrip/internal/lang"
	"github.com/vidrip/vidrip/internal/media"
	"github.com/vidrip/vidrip/internal/model"
)

// fakeSource is a scripted media source: fixed metadata and a canned progress
// event sequence per download.
type fakeSource struct {
	mu       sync.Mutex
	meta     *model.VideoMetadata
	metaErr  error
	events   []media.ProgressEvent
	hold     chan struct{} // when set, events are withheld until closed
	metaHold chan struct{} // when set, FetchMetadata blocks until closed
	requests []media.DownloadRequest
}

func (f *fakeSource) FetchMetadata(_ context.Context, _ string) (*model.VideoMetadata, error) {
	f.mu.Lock()
	hold := f.metaHold
	f.mu.Unlock()
	if hold != nil {
		<-hold
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	return f.meta, nil
}

func (f *fakeSource) Download(_ context.Context, req media.DownloadRequest) (<-chan media.ProgressEvent, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	events := make([]media.ProgressEvent, len(f.events))
	copy(events, f.events)
	hold := f.hold
	f.mu.Unlock()

	ch := make(chan media.ProgressEvent, len(events))
	go func() {
		if hold != nil {
			<-hold
		}
		for _, e := range events {
			ch <- e
		}
		close(ch)
	}()
	return ch, nil
}

func (f *fakeSource) lastRequest() media.DownloadRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

// recorder captures the (state, percent) sequence observed via the update callback.
type recorder struct {
	mu      sync.Mutex
	states  []model.TaskState
	percent []int
}

func (r *recorder) record(task *model.DownloadTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, task.State)
	r.percent = append(r.percent, task.Percent)
}

func (r *recorder) percents() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.percent))
	copy(out, r.percent)
	return out
}

func testMetadata() *model.VideoMetadata {
	return &model.VideoMetadata{
		Title: "Test Video",
		Streams: []model.MediaStream{
			{Container: "mp4", VideoCodec: "avc1", AudioCodec: "none", Height: 1080},
			{Container: "webm", VideoCodec: "vp9", AudioCodec: "none", Height: 720},
		},
	}
}

func testResolver() *lang.Resolver {
	return lang.NewResolver(
		map[string]string{"en": "English", "es": "Spanish"},
		nil,
	)
}

func newTestService(src *fakeSource) (*Service, *recorder) {
	svc := NewService(src, testResolver(), "/tmp/downloads", zap.NewNop())
	rec := &recorder{}
	svc.SetUpdateCallback(rec.record)
	return svc, rec
}

func waitForState(t *testing.T, s *Service, id string, want model.TaskState) *model.DownloadTask {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if task, ok := s.GetTask(id); ok && task.State == want {
			return task
		}
		time.Sleep(5 * time.Millisecond)
	}
	task, _ := s.GetTask(id)
	t.Fatalf("task never reached %s, currently %+v", want, task)
	return nil
}

func waitForEmptyQueue(t *testing.T, s *Service) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.GetAllTasks()) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("queue never drained, still %d tasks", len(s.GetAllTasks()))
}

func TestAddTask_MetadataResolves(t *testing.T) {
	src := &fakeSource{meta: testMetadata()}
	svc, _ := newTestService(src)

	task, err := svc.AddTask("https://youtube.com/watch?v=test")
	if err != nil {
		t.Fatalf("AddTask returned error: %v", err)
	}

	task = waitForState(t, svc, task.ID, model.TaskStateReady)

	if task.Selection == nil {
		t.Fatal("selection must be populated once Ready")
	}
	if task.Selection.Resolution != "best" ||
		task.Selection.Container != format.Containers[0] ||
		task.Selection.AudioLanguage != model.AudioDefault ||
		task.Selection.SubtitleLanguage != model.SubtitlesNone {
		t.Errorf("unexpected default selection: %+v", task.Selection)
	}

	// Option menus derived from this metadata match the scenario:
	// best first, then descending heights; no audio languages detected.
	resOptions := format.ResolutionOptions(task.Metadata.Streams)
	if !reflect.DeepEqual(resOptions, []string{"best", "1080p", "720p"}) {
		t.Errorf("resolution options = %v", resOptions)
	}
	audioOptions := format.AudioLanguageOptions(task.Metadata, testResolver())
	if !reflect.DeepEqual(audioOptions, []string{"default"}) {
		t.Errorf("audio options = %v", audioOptions)
	}
}

func TestAddTask_MetadataFailureEvictsTask(t *testing.T) {
	src := &fakeSource{metaErr: media.Classify(errors.New("Private video. Sign in"))}
	svc, _ := newTestService(src)

	var removedErr error
	var removedMu sync.Mutex
	svc.SetRemoveCallback(func(_ *model.DownloadTask, err error) {
		removedMu.Lock()
		removedErr = err
		removedMu.Unlock()
	})

	if _, err := svc.AddTask("https://youtube.com/watch?v=private"); err != nil {
		t.Fatalf("AddTask returned error: %v", err)
	}

	waitForEmptyQueue(t, svc)

	removedMu.Lock()
	defer removedMu.Unlock()
	if !errors.Is(removedErr, media.ErrAccessDenied) {
		t.Errorf("remove callback error = %v, expected access-denied category", removedErr)
	}
}

func TestAddTask_DuplicateURL(t *testing.T) {
	src := &fakeSource{meta: testMetadata()}
	svc, _ := newTestService(src)

	task, _ := svc.AddTask("https://youtube.com/watch?v=dup")
	waitForState(t, svc, task.ID, model.TaskStateReady)

	if _, err := svc.AddTask("https://youtube.com/watch?v=dup"); err == nil {
		t.Error("expected error for duplicate URL")
	}
}

func TestStartDownload_FullLifecycle(t *testing.T) {
	src := &fakeSource{
		meta: testMetadata(),
		events: []media.ProgressEvent{
			{Status: media.StatusDownloading, DownloadedBytes: 25, TotalBytes: 100},
			{Status: media.StatusDownloading, DownloadedBytes: 50, TotalBytes: 100},
			{Status: media.StatusDownloading, DownloadedBytes: 90, TotalBytes: 100},
			{Status: media.StatusFinished},
		},
	}
	svc, rec := newTestService(src)

	task, _ := svc.AddTask("https://youtube.com/watch?v=ok")
	waitForState(t, svc, task.ID, model.TaskStateReady)

	if err := svc.StartDownload(task.ID); err != nil {
		t.Fatalf("StartDownload returned error: %v", err)
	}
	task = waitForState(t, svc, task.ID, model.TaskStateCompleted)

	if task.Percent != 100 {
		t.Errorf("completed task percent = %d, expected exactly 100", task.Percent)
	}

	// Percent never decreases across the observed sequence.
	percents := rec.percents()
	last := 0
	for _, p := range percents {
		if p < last {
			t.Errorf("percent regressed in sequence %v", percents)
			break
		}
		last = p
	}
}

func TestStartDownload_EstimateFallback(t *testing.T) {
	src := &fakeSource{
		meta: testMetadata(),
		events: []media.ProgressEvent{
			{Status: media.StatusDownloading, DownloadedBytes: 40, TotalBytesEstimate: 200},
			{Status: media.StatusFinished},
		},
	}
	svc, rec := newTestService(src)

	task, _ := svc.AddTask("https://youtube.com/watch?v=estimate")
	waitForState(t, svc, task.ID, model.TaskStateReady)
	svc.StartDownload(task.ID)
	waitForState(t, svc, task.ID, model.TaskStateCompleted)

	seen := false
	for _, p := range rec.percents() {
		if p == 20 {
			seen = true
		}
	}
	if !seen {
		t.Errorf("expected a 20%% update from the byte estimate, got %v", rec.percents())
	}
}

func TestStartDownload_NoTotalsNoUpdate(t *testing.T) {
	src := &fakeSource{
		meta: testMetadata(),
		events: []media.ProgressEvent{
			{Status: media.StatusDownloading, DownloadedBytes: 1024},
			{Status: media.StatusDownloading, DownloadedBytes: 4096},
			{Status: media.StatusFinished},
		},
	}
	svc, rec := newTestService(src)

	task, _ := svc.AddTask("https://youtube.com/watch?v=nototal")
	waitForState(t, svc, task.ID, model.TaskStateReady)
	svc.StartDownload(task.ID)
	waitForState(t, svc, task.ID, model.TaskStateCompleted)

	// Totals were never known: the only percents observed are 0 and the
	// forced 100 on completion.
	for _, p := range rec.percents() {
		if p != 0 && p != 100 {
			t.Errorf("unexpected percent %d without totals, sequence %v", p, rec.percents())
		}
	}
}

func TestStartDownload_FailureAndRetry(t *testing.T) {
	src := &fakeSource{
		meta: testMetadata(),
		events: []media.ProgressEvent{
			{Status: media.StatusDownloading, DownloadedBytes: 60, TotalBytes: 100},
			{Status: media.StatusError, Err: media.Classify(errors.New("connection reset"))},
		},
	}
	svc, _ := newTestService(src)

	task, _ := svc.AddTask("https://youtube.com/watch?v=flaky")
	waitForState(t, svc, task.ID, model.TaskStateReady)
	svc.StartDownload(task.ID)
	task = waitForState(t, svc, task.ID, model.TaskStateDownloadFailed)

	// Progress stays at its last value after a failure.
	if task.Percent != 60 {
		t.Errorf("failed task percent = %d, expected last known 60", task.Percent)
	}
	if task.LastError == "" {
		t.Error("failed task should carry an error")
	}

	// The user may retry; the new attempt resets progress and can complete.
	src.mu.Lock()
	src.events = []media.ProgressEvent{
		{Status: media.StatusDownloading, DownloadedBytes: 10, TotalBytes: 100},
		{Status: media.StatusFinished},
	}
	src.mu.Unlock()

	if err := svc.StartDownload(task.ID); err != nil {
		t.Fatalf("retry StartDownload returned error: %v", err)
	}
	task = waitForState(t, svc, task.ID, model.TaskStateCompleted)
	if task.Percent != 100 {
		t.Errorf("retried task percent = %d, expected 100", task.Percent)
	}
}

func TestStartDownload_InvalidStates(t *testing.T) {
	src := &fakeSource{
		meta:     testMetadata(),
		events:   []media.ProgressEvent{{Status: media.StatusFinished}},
		hold:     make(chan struct{}),
		metaHold: make(chan struct{}),
	}
	svc, _ := newTestService(src)

	if err := svc.StartDownload("missing"); err == nil {
		t.Error("expected error for unknown task ID")
	}

	task, _ := svc.AddTask("https://youtube.com/watch?v=states")

	// Metadata is withheld, so the task is still loading.
	if err := svc.StartDownload(task.ID); err == nil {
		t.Error("expected error starting download while metadata loads")
	}

	close(src.metaHold)
	waitForState(t, svc, task.ID, model.TaskStateReady)

	// The fake withholds events, so the task sits in Downloading.
	if err := svc.StartDownload(task.ID); err != nil {
		t.Fatalf("StartDownload returned error: %v", err)
	}
	waitForState(t, svc, task.ID, model.TaskStateDownloading)
	if err := svc.StartDownload(task.ID); err == nil {
		t.Error("expected error starting an already running download")
	}

	close(src.hold)
	waitForState(t, svc, task.ID, model.TaskStateCompleted)
}

func TestStartAll(t *testing.T) {
	src := &fakeSource{
		meta:   testMetadata(),
		events: []media.ProgressEvent{{Status: media.StatusFinished}},
	}
	svc, _ := newTestService(src)

	a, _ := svc.AddTask("https://youtube.com/watch?v=a")
	b, _ := svc.AddTask("https://youtube.com/watch?v=b")
	waitForState(t, svc, a.ID, model.TaskStateReady)
	waitForState(t, svc, b.ID, model.TaskStateReady)

	if started := svc.StartAll(); started != 2 {
		t.Errorf("StartAll() = %d, expected 2", started)
	}
	waitForState(t, svc, a.ID, model.TaskStateCompleted)
	waitForState(t, svc, b.ID, model.TaskStateCompleted)

	// Completed tasks are not restarted.
	if started := svc.StartAll(); started != 0 {
		t.Errorf("StartAll() after completion = %d, expected 0", started)
	}
}

func TestStartDownload_RequestSnapshot(t *testing.T) {
	meta := testMetadata()
	meta.Streams = append(meta.Streams, model.MediaStream{
		Container: "m4a", VideoCodec: "none", AudioCodec: "mp4a", Language: "es",
	})
	meta.SubtitleLanguages = []string{"en"}

	src := &fakeSource{
		meta:   meta,
		events: []media.ProgressEvent{{Status: media.StatusFinished}},
	}
	svc, _ := newTestService(src)

	task, _ := svc.AddTask("https://youtube.com/watch?v=req")
	task = waitForState(t, svc, task.ID, model.TaskStateReady)

	// The UI stores display names; the request must carry codes.
	task.Selection.Resolution = "720p"
	task.Selection.Container = "mp4"
	task.Selection.AudioLanguage = "Spanish"
	task.Selection.SubtitleLanguage = "English"

	svc.SetDownloadDirectory("/data/videos")
	svc.StartDownload(task.ID)
	waitForState(t, svc, task.ID, model.TaskStateCompleted)

	req := src.lastRequest()
	expectedSelector := "best[height<=720][ext=mp4][language=es]/best[height<=720][ext=mp4]/best[height<=720]/best[ext=mp4]/best"
	if req.Selector != expectedSelector {
		t.Errorf("request selector = %q, expected %q", req.Selector, expectedSelector)
	}
	if req.DestinationDir != "/data/videos" {
		t.Errorf("request destination = %q, expected folder read at start", req.DestinationDir)
	}
	if req.Output.SubtitleLanguage != "en" {
		t.Errorf("request subtitle language = %q, expected code en", req.Output.SubtitleLanguage)
	}
	if req.Output.MergeContainer != "mp4" {
		t.Errorf("request merge container = %q, expected mp4", req.Output.MergeContainer)
	}
	if req.Output.FilenameTemplate != "Test Video.%(ext)s" {
		t.Errorf("request filename template = %q", req.Output.FilenameTemplate)
	}
}

func TestStartDownload_DefaultAudioHasNoLanguageClause(t *testing.T) {
	src := &fakeSource{
		meta:   testMetadata(),
		events: []media.ProgressEvent{{Status: media.StatusFinished}},
	}
	svc, _ := newTestService(src)

	task, _ := svc.AddTask("https://youtube.com/watch?v=defaults")
	waitForState(t, svc, task.ID, model.TaskStateReady)
	svc.StartDownload(task.ID)
	waitForState(t, svc, task.ID, model.TaskStateCompleted)

	req := src.lastRequest()
	if strings.Contains(req.Selector, "language") {
		t.Errorf("default-audio selector contains language clause: %q", req.Selector)
	}
	if req.Selector != "best[ext=mp4]" {
		t.Errorf("default selector = %q, expected best[ext=mp4]", req.Selector)
	}
}

func TestRemoveAndClear(t *testing.T) {
	src := &fakeSource{meta: testMetadata()}
	svc, _ := newTestService(src)

	a, _ := svc.AddTask("https://youtube.com/watch?v=r1")
	b, _ := svc.AddTask("https://youtube.com/watch?v=r2")
	waitForState(t, svc, a.ID, model.TaskStateReady)
	waitForState(t, svc, b.ID, model.TaskStateReady)

	if err := svc.RemoveTask(a.ID); err != nil {
		t.Fatalf("RemoveTask returned error: %v", err)
	}
	if err := svc.RemoveTask(a.ID); err == nil {
		t.Error("expected error removing a task twice")
	}

	tasks := svc.GetAllTasks()
	if len(tasks) != 1 || tasks[0].ID != b.ID {
		t.Errorf("queue after remove = %v", tasks)
	}

	svc.Clear()
	if len(svc.GetAllTasks()) != 0 {
		t.Error("queue should be empty after Clear")
	}
}

func TestGetTask_ReturnsStateSnapshot(t *testing.T) {
	src := &fakeSource{meta: testMetadata()}
	svc, _ := newTestService(src)

	task, _ := svc.AddTask("https://youtube.com/watch?v=snap")
	waitForState(t, svc, task.ID, model.TaskStateReady)

	// Mutating a returned task must not leak into the queue entry.
	first, ok := svc.GetTask(task.ID)
	if !ok {
		t.Fatal("GetTask did not find the task")
	}
	first.Percent = 55
	first.State = model.TaskStateDownloading

	second, _ := svc.GetTask(task.ID)
	if second.Percent != 0 || second.State != model.TaskStateReady {
		t.Errorf("queue entry changed through a snapshot: percent %d, state %s",
			second.Percent, second.State)
	}

	// The selection is shared deliberately: menu edits reach the entry.
	first.Selection.Container = "webm"
	third, _ := svc.GetTask(task.ID)
	if third.Selection.Container != "webm" {
		t.Errorf("selection edit did not reach the queue entry, got %s",
			third.Selection.Container)
	}
}

func TestGetAllTasks_QueueOrder(t *testing.T) {
	src := &fakeSource{meta: testMetadata()}
	svc, _ := newTestService(src)

	urls := []string{
		"https://youtube.com/watch?v=one",
		"https://youtube.com/watch?v=two",
		"https://youtube.com/watch?v=three",
	}
	for _, u := range urls {
		task, _ := svc.AddTask(u)
		waitForState(t, svc, task.ID, model.TaskStateReady)
	}

	tasks := svc.GetAllTasks()
	for i, u := range urls {
		if tasks[i].URL != u {
			t.Errorf("queue order: position %d = %s, expected %s", i, tasks[i].URL, u)
		}
	}
}
