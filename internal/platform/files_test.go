package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	err := CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if downloadsDir == "" {
		t.Fatal("Downloads directory is empty")
	}

	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "clean name unchanged",
			input:    "My Video Title",
			expected: "My Video Title",
		},
		{
			name:     "slashes replaced",
			input:    "AC/DC - Back\\In Black",
			expected: "AC_DC - Back_In Black",
		},
		{
			name:     "windows reserved characters replaced",
			input:    `what? "quoted" <tag> fi|le: *star*`,
			expected: "what_ _quoted_ _tag_ fi_le_ _star_",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  padded title  ",
			expected: "padded title",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name:    "valid https URL",
			url:     "https://www.youtube.com/watch?v=abc123",
			wantErr: false,
		},
		{
			name:    "valid http URL",
			url:     "http://example.com/video",
			wantErr: false,
		},
		{
			name:    "URL with surrounding whitespace",
			url:     "  https://youtube.com/watch?v=abc  ",
			wantErr: false,
		},
		{
			name:    "missing scheme",
			url:     "youtube.com/watch?v=abc",
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			url:     "ftp://example.com/file",
			wantErr: true,
		},
		{
			name:    "scheme only",
			url:     "https://",
			wantErr: true,
		},
		{
			name:    "empty string",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestOpenFolderInManager_NonExistentDir(t *testing.T) {
	tempDir := t.TempDir()
	missing := filepath.Join(tempDir, "nope")

	if err := OpenFolderInManager(missing); err == nil {
		t.Error("Expected error for non-existent directory, got nil")
	}
}

func TestFFmpegPath_DoesNotPanic(t *testing.T) {
	// The binary may or may not be installed; the resolution itself must
	// succeed either way.
	path := FFmpegPath()
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("FFmpegPath returned a path that does not exist: %s", path)
		}
	}
}
