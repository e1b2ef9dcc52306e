package ui

import (
	"errors"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/vidrip/vidrip/internal/config"
	"github.com/vidrip/vidrip/internal/download"
	"github.com/vidrip/vidrip/internal/lang"
	"github.com/vidrip/vidrip/internal/media"
	"github.com/vidrip/vidrip/internal/model"
	"github.com/vidrip/vidrip/internal/platform"
)

// RootUI represents the main window: the URL entry row on top, the task
// queue in the middle, and the queue-wide actions at the bottom.
type RootUI struct {
	window fyne.Window
	app    fyne.App

	urlEntry *widget.Entry
	addBtn   *widget.Button
	taskList *widget.List
	visible  []*model.DownloadTask

	downloadSvc  download.Downloader
	resolver     *lang.Resolver
	settings     *config.Settings
	localization *Localization
	logger       *zap.Logger
	thumbs       *thumbnailCache

	// Notice banner
	noticeContainer *fyne.Container
	noticeLabel     *widget.Label
	noticeTimer     *time.Timer
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, downloadSvc download.Downloader, resolver *lang.Resolver, logger *zap.Logger) *RootUI {
	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		logger.Warn("failed to create downloads directory",
			zap.String("dir", downloadsDir),
			zap.Error(err))
	}
	downloadSvc.SetDownloadDirectory(downloadsDir)

	ui := &RootUI{
		window:       window,
		app:          app,
		downloadSvc:  downloadSvc,
		resolver:     resolver,
		settings:     settings,
		localization: localization,
		logger:       logger,
		thumbs:       newThumbnailCache(),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	// Worker goroutines report through these; marshal onto the UI thread.
	downloadSvc.SetUpdateCallback(ui.onTaskUpdate)
	downloadSvc.SetRemoveCallback(ui.onTaskEvicted)

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onAddClick()
	}

	ui.addBtn = widget.NewButton(ui.localization.GetText(KeyAdd), ui.onAddClick)
	ui.addBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	topPanel := container.NewBorder(nil, nil, settingsBtn, ui.addBtn, ui.urlEntry)

	// Notice banner, hidden until something goes wrong
	ui.noticeLabel = widget.NewLabel("")
	ui.noticeLabel.Truncation = fyne.TextTruncateEllipsis
	closeBtn := widget.NewButton(IconClose, ui.hideNotice)
	closeBtn.Importance = widget.LowImportance
	ui.noticeContainer = container.NewBorder(nil, nil, nil, closeBtn, ui.noticeLabel)
	ui.noticeContainer.Hide()

	ui.taskList = widget.NewList(
		func() int { return len(ui.visible) },
		ui.createTaskItem,
		ui.updateTaskItem,
	)

	downloadAllBtn := widget.NewButton(ui.localization.GetText(KeyDownloadAll), ui.onDownloadAll)
	clearBtn := widget.NewButton(ui.localization.GetText(KeyClear), ui.onClear)
	openFolderBtn := widget.NewButton(IconFolder+" "+ui.localization.GetText(KeyOpenFolder), ui.onOpenFolder)
	bottomPanel := container.NewHBox(downloadAllBtn, clearBtn, openFolderBtn)

	content := container.NewBorder(
		container.NewVBox(topPanel, ui.noticeContainer),
		bottomPanel,
		nil, nil,
		ui.taskList,
	)

	ui.window.SetContent(content)
	ui.window.Resize(fyne.NewSize(config.WindowWidth, config.WindowHeight))
}

func (ui *RootUI) createTaskItem() fyne.CanvasObject {
	row := NewTaskRow(ui.localization, ui.resolver)
	row.SetCallbacks(ui.onStartDownload, ui.onRemoveTask)
	return row
}

func (ui *RootUI) updateTaskItem(id widget.ListItemID, item fyne.CanvasObject) {
	row, ok := item.(*TaskRow)
	if !ok || id >= len(ui.visible) {
		return
	}

	task := ui.visible[id]
	row.SetTask(task)

	if task.Metadata != nil && task.Metadata.ThumbnailURL != "" {
		ui.thumbs.fetch(task.Metadata.ThumbnailURL, row.SetThumbnail)
	}
}

// onAddClick validates the entered URL and queues it
func (ui *RootUI) onAddClick() {
	url := ui.urlEntry.Text
	if url == "" {
		ui.showNotice(ui.localization.GetText(KeyPleaseEnterURL))
		return
	}
	if err := platform.ValidateURL(url); err != nil {
		ui.showNotice(ui.localization.GetText(KeyInvalidURL))
		return
	}

	if _, err := ui.downloadSvc.AddTask(url); err != nil {
		ui.showNotice(ui.localization.GetText(KeyAlreadyInQueue))
		return
	}

	ui.urlEntry.SetText("")
	ui.refreshTasks()
}

func (ui *RootUI) onStartDownload(taskID string) {
	if err := ui.downloadSvc.StartDownload(taskID); err != nil {
		ui.logger.Warn("start download rejected",
			zap.String("task", taskID),
			zap.Error(err))
		return
	}
	ui.refreshTasks()
}

func (ui *RootUI) onRemoveTask(taskID string) {
	if err := ui.downloadSvc.RemoveTask(taskID); err != nil {
		ui.logger.Warn("remove task rejected",
			zap.String("task", taskID),
			zap.Error(err))
	}
	ui.refreshTasks()
}

func (ui *RootUI) onDownloadAll() {
	started := ui.downloadSvc.StartAll()
	ui.logger.Info("download all", zap.Int("started", started))
	ui.refreshTasks()
}

func (ui *RootUI) onClear() {
	ui.downloadSvc.Clear()
	ui.refreshTasks()
}

func (ui *RootUI) onOpenFolder() {
	dir := ui.downloadSvc.GetDownloadDirectory()
	if err := platform.OpenFolderInManager(dir); err != nil {
		ui.logger.Warn("failed to open downloads folder",
			zap.String("dir", dir),
			zap.Error(err))
	}
}

func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, ui.onSettingsSaved).Show()
}

// onSettingsSaved applies confirmed settings to the running services
func (ui *RootUI) onSettingsSaved() {
	dir := ui.settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		ui.logger.Warn("failed to create downloads directory",
			zap.String("dir", dir),
			zap.Error(err))
	}
	ui.downloadSvc.SetDownloadDirectory(dir)

	ui.localization.SetLanguage(ui.settings.GetLanguage())
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.refreshTasks()
}

// onTaskUpdate is invoked from worker goroutines on every observable task change
func (ui *RootUI) onTaskUpdate(task *model.DownloadTask) {
	fyne.Do(func() {
		ui.refreshTasks()
	})
}

// onTaskEvicted is invoked when a task is dropped because its metadata fetch failed
func (ui *RootUI) onTaskEvicted(task *model.DownloadTask, err error) {
	fyne.Do(func() {
		ui.showNotice(ui.localization.GetText(evictionMessageKey(err)))
		ui.refreshTasks()
	})
}

func evictionMessageKey(err error) string {
	switch {
	case errors.Is(err, media.ErrNotFound):
		return KeyVideoNotFound
	case errors.Is(err, media.ErrAccessDenied):
		return KeyAccessDenied
	case errors.Is(err, media.ErrNetwork):
		return KeyNetworkError
	default:
		return KeyUnknownError
	}
}

// refreshTasks re-snapshots the queue and redraws the list. UI thread only.
func (ui *RootUI) refreshTasks() {
	ui.visible = ui.downloadSvc.GetAllTasks()
	ui.taskList.Refresh()
}

// showNotice displays the banner and arms the auto-hide timer
func (ui *RootUI) showNotice(message string) {
	ui.noticeLabel.SetText(message)
	ui.noticeContainer.Show()

	if ui.noticeTimer != nil {
		ui.noticeTimer.Stop()
	}
	ui.noticeTimer = time.AfterFunc(NoticeAutoHide, func() {
		fyne.Do(ui.hideNotice)
	})
}

func (ui *RootUI) hideNotice() {
	if ui.noticeTimer != nil {
		ui.noticeTimer.Stop()
		ui.noticeTimer = nil
	}
	ui.noticeContainer.Hide()
}
