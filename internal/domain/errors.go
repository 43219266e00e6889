package domain

import "errors"

var (
	ErrCameraUnavailable        = errors.New("camera unavailable")
	ErrPermissionDenied         = errors.New("camera permission denied")
	ErrConstraintsUnsatisfiable = errors.New("camera constraints unsatisfiable")
	ErrCaptureSurfaceNotReady   = errors.New("capture surface not ready")
	ErrRecordingSetupFailed     = errors.New("recording setup failed")
	ErrRecordingActive          = errors.New("recording already active")
	ErrInvalidVibe              = errors.New("invalid vibe")
	ErrImageLoadFailed          = errors.New("overlay image load failed")
)

// UserMessage maps an internal error kind to the single human-readable
// string shown with the retry affordance. Overlay and share failures
// never reach here; they recover locally.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrCameraUnavailable):
		return "Camera is not supported on this device"
	case errors.Is(err, ErrPermissionDenied):
		return "Camera access was denied. Check permissions and try again"
	case errors.Is(err, ErrConstraintsUnsatisfiable):
		return "Camera could not match the requested settings"
	default:
		return "Could not start the camera. Try again"
	}
}
