package config

// Viewer configuration
const (
	// Window size in pixels
	WindowWidth  = 1280
	WindowHeight = 800

	// Camera pan speed in screen pixels per frame
	CameraSpeed = 8
	// Zoom factor applied per frame while a zoom key is held
	ZoomStep = 1.03

	// Separation steps run per frame when watching a run live
	SeparationStepsPerFrame = 2

	// Pixel size of one tile in a dual grid tile sheet
	AtlasSourceSize = 16

	// Message lines shown at the bottom of the screen
	StatusMessages = 4

	// Runs kept in the viewer history
	MaxRuns = 16
)

// GetWindowSize returns the recommended window size
func GetWindowSize() (width, height int) {
	return WindowWidth, WindowHeight
}
