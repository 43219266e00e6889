package artifact

import "errors"

var (
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrObjectNotFound   = errors.New("object not found")
	ErrStorageError     = errors.New("storage error")
)
