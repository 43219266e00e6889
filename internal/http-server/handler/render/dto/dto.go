package dto

import "time"

type RenderRequest struct {
	VenueName string  `json:"venue_name" validate:"required,max=120"`
	Vibe      string  `json:"vibe" validate:"required,oneof=turnt chill quiet"`
	FilterID  string  `json:"filter_id"`
	Zoom      float64 `json:"zoom" validate:"gte=0,lte=8"`
}

type RenderResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	VenueName string    `json:"venue_name"`
	Vibe      string    `json:"vibe"`
	CreatedAt time.Time `json:"created_at"`
}

type ListResponse struct {
	Renders []RenderResponse `json:"renders"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type StatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type OpenCaptureRequest struct {
	VenueName string `json:"venue_name" validate:"required,max=120"`
	Vibe      string `json:"vibe" validate:"required,oneof=turnt chill quiet"`
}

type PressRequest struct {
	Action     string  `json:"action" validate:"required,oneof=down up"`
	DX         float64 `json:"dx"`
	DY         float64 `json:"dy"`
	HeldMillis int64   `json:"held_ms" validate:"gte=0"`
	InZoomZone bool    `json:"in_zoom_zone"`
}

type ZoomRequest struct {
	Zoom float64 `json:"zoom" validate:"gte=1,lte=8"`
}

type ShareRequest struct {
	IncludeHashtags bool `json:"include_hashtags"`
}

type ShareResponse struct {
	Outcome string `json:"outcome"`
}

type CaptureStatusResponse struct {
	State       string  `json:"state"`
	Countdown   int     `json:"countdown,omitempty"`
	PosePrompt  string  `json:"pose_prompt,omitempty"`
	Elapsed     int     `json:"elapsed,omitempty"`
	FilterID    string  `json:"filter_id"`
	FilterToast string  `json:"filter_toast,omitempty"`
	Zoom        float64 `json:"zoom"`
	ArtifactID  string  `json:"artifact_id,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
