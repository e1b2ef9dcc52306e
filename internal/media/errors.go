package media

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Classified failure categories. Raw extractor output is wrapped, never shown
// to the user directly; presentation code matches with errors.Is and renders
// a localized message per category.
var (
	// ErrNotFound indicates the video is removed, private, or otherwise unavailable.
	ErrNotFound = errors.New("video not found")
	// ErrAccessDenied indicates sign-in, age, or geographic restriction.
	ErrAccessDenied = errors.New("access denied")
	// ErrNetwork indicates a connectivity or timeout failure.
	ErrNetwork = errors.New("network error")
	// ErrUnknown covers everything else.
	ErrUnknown = errors.New("unknown error")
)

// Classify wraps a raw media-source error in one of the sentinel categories.
// Matching is substring-based over the tool's error text; yt-dlp reports these
// conditions as prose, not codes.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "sign in") || strings.Contains(msg, "private") ||
		strings.Contains(msg, "age") && strings.Contains(msg, "restrict"):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	case strings.Contains(msg, "unavailable") || strings.Contains(msg, "not found") ||
		strings.Contains(msg, "404"):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case strings.Contains(msg, "network") || strings.Contains(msg, "connection") ||
		strings.Contains(msg, "timed out") || strings.Contains(msg, "timeout"):
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnknown, err)
	}
}
