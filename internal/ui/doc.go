package ui

// Package ui contains the Fyne-based desktop user interface. It wires user
// interactions to the download service and renders the task queue, per-task
// format selection, notifications, and settings. All UI strings are localized
// via Localization.
