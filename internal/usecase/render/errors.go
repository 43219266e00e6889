package render

import "errors"

var (
	ErrInvalidFrame  = errors.New("invalid frame data")
	ErrFrameTooLarge = errors.New("frame too large")
)
