package model

// TaskState represents the lifecycle state of a download task
type TaskState string

const (
	// TaskStateLoadingMetadata means the task is resolving video metadata
	TaskStateLoadingMetadata TaskState = "LoadingMetadata"

	// TaskStateReady means metadata resolved and the task is waiting for the user
	TaskStateReady TaskState = "Ready"

	// TaskStateDownloading means the transfer is in progress
	TaskStateDownloading TaskState = "Downloading"

	// TaskStateCompleted means the transfer finished successfully
	TaskStateCompleted TaskState = "Completed"

	// TaskStateMetadataFailed means metadata resolution failed; the task is
	// removed from the queue and cannot be retried
	TaskStateMetadataFailed TaskState = "MetadataFailed"

	// TaskStateDownloadFailed means the transfer failed; the user may retry
	TaskStateDownloadFailed TaskState = "DownloadFailed"
)

// String returns the string representation of TaskState
func (ts TaskState) String() string {
	return string(ts)
}

// IsActive returns true if a worker goroutine is running for this state
func (ts TaskState) IsActive() bool {
	return ts == TaskStateLoadingMetadata || ts == TaskStateDownloading
}

// CanDownload returns true if a download may be started from this state
func (ts TaskState) CanDownload() bool {
	return ts == TaskStateReady || ts == TaskStateDownloadFailed
}

// IsTerminal returns true if no further transition happens without user action
func (ts TaskState) IsTerminal() bool {
	return ts == TaskStateCompleted || ts == TaskStateMetadataFailed || ts == TaskStateDownloadFailed
}
