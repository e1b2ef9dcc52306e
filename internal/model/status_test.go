package model

import "testing"

func TestTaskState_IsActive(t *testing.T) {
	tests := []struct {
		state    TaskState
		expected bool
	}{
		{TaskStateLoadingMetadata, true},
		{TaskStateReady, false},
		{TaskStateDownloading, true},
		{TaskStateCompleted, false},
		{TaskStateMetadataFailed, false},
		{TaskStateDownloadFailed, false},
	}

	for _, test := range tests {
		result := test.state.IsActive()
		if result != test.expected {
			t.Errorf("TaskState(%s).IsActive() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestTaskState_CanDownload(t *testing.T) {
	tests := []struct {
		state    TaskState
		expected bool
	}{
		{TaskStateLoadingMetadata, false},
		{TaskStateReady, true},
		{TaskStateDownloading, false},
		{TaskStateCompleted, false},
		{TaskStateMetadataFailed, false},
		{TaskStateDownloadFailed, true},
	}

	for _, test := range tests {
		result := test.state.CanDownload()
		if result != test.expected {
			t.Errorf("TaskState(%s).CanDownload() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestTaskState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    TaskState
		expected bool
	}{
		{TaskStateLoadingMetadata, false},
		{TaskStateReady, false},
		{TaskStateDownloading, false},
		{TaskStateCompleted, true},
		{TaskStateMetadataFailed, true},
		{TaskStateDownloadFailed, true},
	}

	for _, test := range tests {
		result := test.state.IsTerminal()
		if result != test.expected {
			t.Errorf("TaskState(%s).IsTerminal() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestTaskState_String(t *testing.T) {
	state := TaskStateDownloading
	expected := "Downloading"
	result := state.String()

	if result != expected {
		t.Errorf("TaskState.String() = %s, expected %s", result, expected)
	}
}
