package config

// Application identity
const (
	AppID    = "com.vidrip.app"
	AppTitle = "VidRip"
)

// Main window dimensions
const (
	WindowWidth  = 1000
	WindowHeight = 700
)

// Thumbnail presentation: fixed height, 16:9 aspect
const (
	ThumbnailHeight = 110
	ThumbnailWidth  = ThumbnailHeight * 16 / 9
)
