// Package share hands a finished artifact to the platform: native
// share when available, degrading step by step to a device save.
package share

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vibe-capture/internal/domain"
	"vibe-capture/internal/vibe"

	"github.com/wb-go/wbf/zlog"
)

// Sharer is the platform's native share surface.
type Sharer interface {
	CanShareFiles(mimeType string) bool
	ShareFile(filename string, data []byte, mimeType string) error
	ShareText(text string) error
}

// Clipboard is the platform clipboard.
type Clipboard interface {
	Write(text string) error
}

// Outcome names the single terminal result of a share attempt. The
// user sees exactly one of these, never a stack of errors.
type Outcome string

const (
	OutcomeSharedFile    Outcome = "shared_file"
	OutcomeSharedText    Outcome = "shared_text"
	OutcomeCopiedCaption Outcome = "copied_caption"
	OutcomeSavedToDevice Outcome = "saved_to_device"
)

// Adapter owns the save/share fallback chain. Sharer and Clipboard may
// be nil on platforms without them; those steps just fall through.
type Adapter struct {
	sharer    Sharer
	clipboard Clipboard
	saveDir   string
	logger    *zlog.Zerolog
}

func NewAdapter(sharer Sharer, clipboard Clipboard, saveDir string, logger *zlog.Zerolog) *Adapter {
	return &Adapter{
		sharer:    sharer,
		clipboard: clipboard,
		saveDir:   saveDir,
		logger:    logger,
	}
}

// Save writes the artifact to the device using the filename convention.
func (a *Adapter) Save(artifact *domain.Artifact) (string, error) {
	if err := os.MkdirAll(a.saveDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to prepare save directory: %w", err)
	}
	path := filepath.Join(a.saveDir, artifact.Filename())
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save artifact: %w", err)
	}
	a.logger.Info().Str("path", path).Str("artifact_id", artifact.ID).Msg("Artifact saved to device")
	return path, nil
}

// Share runs the fallback chain: file share, text share, clipboard
// caption, device save. Every fallible step is caught and falls
// through; only the final save can surface an error.
func (a *Adapter) Share(artifact *domain.Artifact, includeHashtags bool) (Outcome, error) {
	caption := a.caption(artifact, includeHashtags)

	if a.sharer != nil && a.sharer.CanShareFiles(artifact.MimeType) {
		if err := a.sharer.ShareFile(artifact.Filename(), artifact.Data, artifact.MimeType); err != nil {
			a.logger.Debug().Err(err).Msg("File share failed, falling back")
		} else {
			return OutcomeSharedFile, nil
		}
	}

	if a.sharer != nil {
		if err := a.sharer.ShareText(caption); err != nil {
			a.logger.Debug().Err(err).Msg("Text share failed, falling back")
		} else {
			return OutcomeSharedText, nil
		}
	}

	if a.clipboard != nil {
		if err := a.clipboard.Write(caption); err != nil {
			a.logger.Debug().Err(err).Msg("Clipboard write failed, falling back")
		} else {
			return OutcomeCopiedCaption, nil
		}
	}

	if _, err := a.Save(artifact); err != nil {
		return OutcomeSavedToDevice, err
	}
	return OutcomeSavedToDevice, nil
}

func (a *Adapter) caption(artifact *domain.Artifact, includeHashtags bool) string {
	if !includeHashtags {
		return artifact.VenueName
	}
	cfg, err := vibe.ConfigFor(artifact.Vibe, artifact.VenueName)
	if err != nil {
		return artifact.VenueName
	}
	return artifact.VenueName + " " + strings.Join(cfg.Hashtags, " ")
}
