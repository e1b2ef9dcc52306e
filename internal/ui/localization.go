package ui

import (
	"os"
	"strings"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle         = "app_title"
	KeyDownload         = "download"
	KeyDownloadAll      = "download_all"
	KeyAdd              = "add"
	KeyRemove           = "remove"
	KeyClear            = "clear"
	KeySettings         = "settings"
	KeyLanguage         = "language"
	KeyDownloadFolder   = "download_folder"
	KeyBrowse           = "browse"
	KeySave             = "save"
	KeyCancel           = "cancel"
	KeyEnterURL         = "enter_url"
	KeyResolution       = "resolution"
	KeyContainer        = "container"
	KeyAudioTrack       = "audio_track"
	KeySubtitles        = "subtitles"
	KeyLoadingMetadata  = "loading_metadata"
	KeyReady            = "ready"
	KeyDownloading      = "downloading"
	KeyCompleted        = "completed"
	KeyDownloadFailed   = "download_failed"
	KeyRetry            = "retry"
	KeyInvalidURL       = "invalid_url"
	KeyPleaseEnterURL   = "please_enter_url"
	KeyAlreadyInQueue   = "already_in_queue"
	KeyVideoNotFound    = "video_not_found"
	KeyAccessDenied     = "access_denied"
	KeyNetworkError     = "network_error"
	KeyUnknownError     = "unknown_error"
	KeyOpenFolder       = "open_folder"
	KeyQueueEmpty       = "queue_empty"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" resolves against the
// process locale and falls back to English.
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// systemLanguage derives a UI language code from the POSIX locale variables
func systemLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := os.Getenv(env)
		if value == "" {
			continue
		}
		code := strings.ToLower(value)
		if idx := strings.IndexAny(code, "_.-"); idx > 0 {
			code = code[:idx]
		}
		if code == "es" {
			return "es"
		}
		return "en"
	}
	return "en"
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:        "VidRip",
		KeyDownload:        "Download",
		KeyDownloadAll:     "Download All",
		KeyAdd:             "Add",
		KeyRemove:          "Remove",
		KeyClear:           "Clear",
		KeySettings:        "Settings",
		KeyLanguage:        "Language",
		KeyDownloadFolder:  "Download Folder",
		KeyBrowse:          "Browse",
		KeySave:            "Save",
		KeyCancel:          "Cancel",
		KeyEnterURL:        "Enter video URL (https://...)",
		KeyResolution:      "Resolution",
		KeyContainer:       "Format",
		KeyAudioTrack:      "Audio",
		KeySubtitles:       "Subtitles",
		KeyLoadingMetadata: "Fetching info...",
		KeyReady:           "Ready",
		KeyDownloading:     "Downloading",
		KeyCompleted:       "Completed",
		KeyDownloadFailed:  "Failed",
		KeyRetry:           "Retry",
		KeyInvalidURL:      "Invalid URL",
		KeyPleaseEnterURL:  "Please enter a URL",
		KeyAlreadyInQueue:  "Already in queue",
		KeyVideoNotFound:   "Video not found",
		KeyAccessDenied:    "Video is private or requires sign-in",
		KeyNetworkError:    "Network error, check your connection",
		KeyUnknownError:    "Download error",
		KeyOpenFolder:      "Open Folder",
		KeyQueueEmpty:      "Paste a video URL above to get started",
	}

	// Spanish texts
	l.texts["es"] = map[string]string{
		KeyAppTitle:        "VidRip",
		KeyDownload:        "Descargar",
		KeyDownloadAll:     "Descargar todo",
		KeyAdd:             "Añadir",
		KeyRemove:          "Quitar",
		KeyClear:           "Limpiar",
		KeySettings:        "Ajustes",
		KeyLanguage:        "Idioma",
		KeyDownloadFolder:  "Carpeta de descargas",
		KeyBrowse:          "Examinar",
		KeySave:            "Guardar",
		KeyCancel:          "Cancelar",
		KeyEnterURL:        "Introduce la URL del vídeo (https://...)",
		KeyResolution:      "Resolución",
		KeyContainer:       "Formato",
		KeyAudioTrack:      "Audio",
		KeySubtitles:       "Subtítulos",
		KeyLoadingMetadata: "Obteniendo información...",
		KeyReady:           "Listo",
		KeyDownloading:     "Descargando",
		KeyCompleted:       "Completado",
		KeyDownloadFailed:  "Error",
		KeyRetry:           "Reintentar",
		KeyInvalidURL:      "URL no válida",
		KeyPleaseEnterURL:  "Por favor, introduce una URL",
		KeyAlreadyInQueue:  "Ya está en la cola",
		KeyVideoNotFound:   "Vídeo no encontrado",
		KeyAccessDenied:    "El vídeo es privado o requiere iniciar sesión",
		KeyNetworkError:    "Error de red, comprueba tu conexión",
		KeyUnknownError:    "Error de descarga",
		KeyOpenFolder:      "Abrir carpeta",
		KeyQueueEmpty:      "Pega la URL de un vídeo arriba para empezar",
	}
}
