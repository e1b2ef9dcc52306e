package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/vidrip/vidrip/internal/config"
	"github.com/vidrip/vidrip/internal/format"
	"github.com/vidrip/vidrip/internal/model"
)

// TaskRow is a compact queue row: thumbnail, title, the four format
// selectors, progress, and per-task actions.
type TaskRow struct {
	widget.BaseWidget

	task         *model.DownloadTask
	localization *Localization
	namer        format.LanguageNamer

	// UI components
	thumbnail     *canvas.Image
	titleLabel    *widget.Label
	statusLabel   *widget.Label
	progressBar   *widget.ProgressBar
	percentLabel  *widget.Label
	resolutionSel *widget.Select
	containerSel  *widget.Select
	audioSel      *widget.Select
	subtitleSel   *widget.Select

	downloadBtn *widget.Button
	removeBtn   *widget.Button

	// Callbacks
	onDownload func(taskID string)
	onRemove   func(taskID string)
}

// NewTaskRow creates a new task row widget
func NewTaskRow(localization *Localization, namer format.LanguageNamer) *TaskRow {
	tr := &TaskRow{
		localization: localization,
		namer:        namer,
	}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	return tr
}

// SetCallbacks sets the action callbacks
func (tr *TaskRow) SetCallbacks(onDownload, onRemove func(taskID string)) {
	tr.onDownload = onDownload
	tr.onRemove = onRemove
}

func (tr *TaskRow) createUI() {
	tr.thumbnail = canvas.NewImageFromResource(theme.FileVideoIcon())
	tr.thumbnail.FillMode = canvas.ImageFillContain
	tr.thumbnail.SetMinSize(fyne.NewSize(config.ThumbnailWidth, config.ThumbnailHeight))

	tr.titleLabel = widget.NewLabel(DashPlaceholder)
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")

	tr.progressBar = widget.NewProgressBar()
	tr.percentLabel = widget.NewLabel(fmt.Sprintf(ProgressLabelFormat, 0))

	tr.resolutionSel = widget.NewSelect(nil, func(value string) {
		tr.updateSelection(func(sel *model.SelectionState) { sel.Resolution = value })
	})
	tr.containerSel = widget.NewSelect(format.Containers, func(value string) {
		tr.updateSelection(func(sel *model.SelectionState) { sel.Container = value })
	})
	tr.audioSel = widget.NewSelect(nil, func(value string) {
		tr.updateSelection(func(sel *model.SelectionState) { sel.AudioLanguage = value })
	})
	tr.subtitleSel = widget.NewSelect(nil, func(value string) {
		tr.updateSelection(func(sel *model.SelectionState) { sel.SubtitleLanguage = value })
	})

	tr.downloadBtn = widget.NewButton(tr.localization.GetText(KeyDownload), func() {
		if tr.onDownload != nil && tr.task != nil {
			tr.onDownload(tr.task.ID)
		}
	})
	tr.downloadBtn.Importance = widget.HighImportance

	tr.removeBtn = widget.NewButton(tr.localization.GetText(KeyRemove), func() {
		if tr.onRemove != nil && tr.task != nil {
			tr.onRemove(tr.task.ID)
		}
	})
	tr.removeBtn.Importance = widget.LowImportance
}

func (tr *TaskRow) updateSelection(apply func(*model.SelectionState)) {
	if tr.task == nil || tr.task.Selection == nil {
		return
	}
	apply(tr.task.Selection)
}

// SetTask binds the row to a task and refreshes every component from it
func (tr *TaskRow) SetTask(task *model.DownloadTask) {
	tr.task = task
	tr.updateFromTask()
}

// SetThumbnail replaces the placeholder with a fetched thumbnail image
func (tr *TaskRow) SetThumbnail(res fyne.Resource) {
	tr.thumbnail.Resource = res
	tr.thumbnail.Refresh()
}

func (tr *TaskRow) updateFromTask() {
	task := tr.task
	if task == nil {
		return
	}

	tr.titleLabel.SetText(task.GetDisplayTitle())
	tr.statusLabel.SetText(tr.statusText(task))

	tr.progressBar.SetValue(float64(task.Percent) / 100)
	tr.percentLabel.SetText(fmt.Sprintf(ProgressLabelFormat, task.Percent))

	tr.refreshSelectors(task)
	tr.refreshActions(task)
}

// refreshSelectors fills the four option menus from metadata. Options only
// exist once the task is Ready; before that the menus stay empty and disabled.
func (tr *TaskRow) refreshSelectors(task *model.DownloadTask) {
	if task.Metadata == nil || task.Selection == nil {
		tr.resolutionSel.Disable()
		tr.containerSel.Disable()
		tr.audioSel.Disable()
		tr.subtitleSel.Disable()
		return
	}

	tr.resolutionSel.Options = format.ResolutionOptions(task.Metadata.Streams)
	tr.audioSel.Options = format.AudioLanguageOptions(task.Metadata, tr.namer)
	tr.subtitleSel.Options = format.SubtitleOptions(task.Metadata, tr.namer)

	tr.resolutionSel.SetSelected(task.Selection.Resolution)
	tr.containerSel.SetSelected(task.Selection.Container)
	tr.audioSel.SetSelected(task.Selection.AudioLanguage)
	tr.subtitleSel.SetSelected(task.Selection.SubtitleLanguage)

	// Selection is frozen while a transfer runs and after completion
	if task.State.CanDownload() {
		tr.resolutionSel.Enable()
		tr.containerSel.Enable()
		tr.audioSel.Enable()
		tr.subtitleSel.Enable()
	} else {
		tr.resolutionSel.Disable()
		tr.containerSel.Disable()
		tr.audioSel.Disable()
		tr.subtitleSel.Disable()
	}
}

func (tr *TaskRow) refreshActions(task *model.DownloadTask) {
	if task.State == model.TaskStateDownloadFailed {
		tr.downloadBtn.SetText(tr.localization.GetText(KeyRetry))
	} else {
		tr.downloadBtn.SetText(tr.localization.GetText(KeyDownload))
	}

	if task.State.CanDownload() {
		tr.downloadBtn.Enable()
	} else {
		tr.downloadBtn.Disable()
	}

	if task.State == model.TaskStateDownloading {
		tr.removeBtn.Disable()
	} else {
		tr.removeBtn.Enable()
	}
}

func (tr *TaskRow) statusText(task *model.DownloadTask) string {
	switch task.State {
	case model.TaskStateLoadingMetadata:
		return tr.localization.GetText(KeyLoadingMetadata)
	case model.TaskStateReady:
		return tr.localization.GetText(KeyReady)
	case model.TaskStateDownloading:
		return tr.localization.GetText(KeyDownloading)
	case model.TaskStateCompleted:
		return tr.localization.GetText(KeyCompleted)
	case model.TaskStateDownloadFailed:
		return tr.localization.GetText(KeyDownloadFailed) + ": " +
			tr.localization.GetText(errorMessageKey(task.LastError))
	default:
		return string(task.State)
	}
}

// errorMessageKey maps a classified error string back to its localization key
func errorMessageKey(lastError string) string {
	switch {
	case strings.HasPrefix(lastError, "video not found"):
		return KeyVideoNotFound
	case strings.HasPrefix(lastError, "access denied"):
		return KeyAccessDenied
	case strings.HasPrefix(lastError, "network error"):
		return KeyNetworkError
	default:
		return KeyUnknownError
	}
}

// CreateRenderer creates the widget renderer
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	selectors := container.NewGridWithColumns(4,
		labeled(tr.localization.GetText(KeyResolution), tr.resolutionSel),
		labeled(tr.localization.GetText(KeyContainer), tr.containerSel),
		labeled(tr.localization.GetText(KeyAudioTrack), tr.audioSel),
		labeled(tr.localization.GetText(KeySubtitles), tr.subtitleSel),
	)

	progress := container.NewBorder(nil, nil, nil, tr.percentLabel, tr.progressBar)

	center := container.NewVBox(
		tr.titleLabel,
		selectors,
		progress,
		tr.statusLabel,
	)

	actions := container.NewVBox(tr.downloadBtn, tr.removeBtn)

	content := container.NewBorder(nil, nil, tr.thumbnail, actions, center)
	return widget.NewSimpleRenderer(content)
}

// MinSize returns the minimum size for the row
func (tr *TaskRow) MinSize() fyne.Size {
	min := tr.BaseWidget.MinSize()
	if min.Width < RowMinWidth {
		min.Width = RowMinWidth
	}
	if min.Height < RowMinHeight {
		min.Height = RowMinHeight
	}
	return min
}

func labeled(caption string, w fyne.CanvasObject) fyne.CanvasObject {
	label := widget.NewLabel(caption)
	label.TextStyle = fyne.TextStyle{Italic: true}
	return container.NewVBox(label, w)
}
