package download

import (
	"github.com/vidrip/vidrip/internal/model"
)

// Downloader defines the queue operations the UI drives.
type Downloader interface {
	// SetUpdateCallback registers the observer for task state changes. The
	// callback runs on worker goroutines; the UI side marshals onto its loop.
	SetUpdateCallback(func(*model.DownloadTask))

	// SetRemoveCallback registers the observer for tasks evicted from the
	// queue after a metadata failure, with the classified error.
	SetRemoveCallback(func(task *model.DownloadTask, err error))

	// SetDownloadDirectory sets the destination folder. It is read at the
	// moment a download starts; in-flight transfers keep their folder.
	SetDownloadDirectory(dir string)
	GetDownloadDirectory() string

	// AddTask, GetTask and GetAllTasks return per-call snapshots: state and
	// progress fields are copied under the queue lock, never live worker
	// state. The Selection pointer is shared with the queue entry so the
	// UI's menu edits flow back.
	AddTask(url string) (*model.DownloadTask, error)
	GetTask(id string) (*model.DownloadTask, bool)
	GetAllTasks() []*model.DownloadTask

	// StartDownload begins or retries the transfer for one task.
	StartDownload(id string) error

	// StartAll starts every task currently able to download, one worker each,
	// and returns how many were started.
	StartAll() int

	RemoveTask(id string) error
	Clear()
}
