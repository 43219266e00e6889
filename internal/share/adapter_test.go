package share

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vibe-capture/internal/domain"

	"github.com/wb-go/wbf/zlog"
)

type fakeSharer struct {
	canShareFiles bool
	fileErr       error
	textErr       error
	sharedFile    string
	sharedText    string
}

func (s *fakeSharer) CanShareFiles(string) bool { return s.canShareFiles }

func (s *fakeSharer) ShareFile(filename string, data []byte, mimeType string) error {
	if s.fileErr != nil {
		return s.fileErr
	}
	s.sharedFile = filename
	return nil
}

func (s *fakeSharer) ShareText(text string) error {
	if s.textErr != nil {
		return s.textErr
	}
	s.sharedText = text
	return nil
}

type fakeClipboard struct {
	err  error
	text string
}

func (c *fakeClipboard) Write(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func testArtifact() *domain.Artifact {
	return &domain.Artifact{
		ID:        "a1",
		Kind:      domain.KindPhoto,
		VenueName: "The Underground",
		Vibe:      domain.VibeTurnt,
		MimeType:  "image/jpeg",
		Data:      []byte("jpeg-bytes"),
	}
}

func TestShareFallbackChain(t *testing.T) {
	failed := errors.New("denied")

	tests := []struct {
		name      string
		sharer    *fakeSharer
		clipboard *fakeClipboard
		want      Outcome
	}{
		{
			"file_share_wins",
			&fakeSharer{canShareFiles: true},
			&fakeClipboard{},
			OutcomeSharedFile,
		},
		{
			"text_when_files_unsupported",
			&fakeSharer{canShareFiles: false},
			&fakeClipboard{},
			OutcomeSharedText,
		},
		{
			"text_when_file_share_fails",
			&fakeSharer{canShareFiles: true, fileErr: failed},
			&fakeClipboard{},
			OutcomeSharedText,
		},
		{
			"clipboard_when_share_fails",
			&fakeSharer{canShareFiles: true, fileErr: failed, textErr: failed},
			&fakeClipboard{},
			OutcomeCopiedCaption,
		},
		{
			"save_when_everything_fails",
			&fakeSharer{canShareFiles: true, fileErr: failed, textErr: failed},
			&fakeClipboard{err: failed},
			OutcomeSavedToDevice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdapter(tt.sharer, tt.clipboard, t.TempDir(), &zlog.Logger)
			outcome, err := a.Share(testArtifact(), true)
			if err != nil {
				t.Fatalf("Share: %v", err)
			}
			if outcome != tt.want {
				t.Fatalf("outcome = %q, want %q", outcome, tt.want)
			}
		})
	}
}

func TestShareWithoutPlatformSavesToDevice(t *testing.T) {
	dir := t.TempDir()
	a := NewAdapter(nil, nil, dir, &zlog.Logger)

	outcome, err := a.Share(testArtifact(), false)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if outcome != OutcomeSavedToDevice {
		t.Fatalf("outcome = %q", outcome)
	}

	path := filepath.Join(dir, "vibe-selfie-The-Underground-turnt.jpg")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatal("saved bytes differ from artifact data")
	}
}

func TestShareCaptionIncludesHashtags(t *testing.T) {
	sharer := &fakeSharer{canShareFiles: false}
	a := NewAdapter(sharer, nil, t.TempDir(), &zlog.Logger)

	if _, err := a.Share(testArtifact(), true); err != nil {
		t.Fatalf("Share: %v", err)
	}
	if !strings.Contains(sharer.sharedText, "#TheUnderground") {
		t.Fatalf("caption %q missing venue hashtag", sharer.sharedText)
	}
	if !strings.HasPrefix(sharer.sharedText, "The Underground") {
		t.Fatalf("caption %q must lead with the venue name", sharer.sharedText)
	}
}

func TestShareCaptionWithoutHashtags(t *testing.T) {
	sharer := &fakeSharer{}
	a := NewAdapter(sharer, nil, t.TempDir(), &zlog.Logger)

	if _, err := a.Share(testArtifact(), false); err != nil {
		t.Fatalf("Share: %v", err)
	}
	if sharer.sharedText != "The Underground" {
		t.Fatalf("caption = %q, want just the venue name", sharer.sharedText)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper")
	a := NewAdapter(nil, nil, dir, &zlog.Logger)

	path, err := a.Save(testArtifact())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved artifact not on disk: %v", err)
	}
}
