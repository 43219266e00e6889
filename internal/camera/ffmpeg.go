package camera

import (
	"fmt"
	"image"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"vibe-capture/internal/domain"
)

// FFmpegDevice reads raw rgb24 frames from an ffmpeg child process.
// Front-facing device 0 is the default on every platform.
type FFmpegDevice struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdout io.ReadCloser
	width  int
	height int
	buf    []byte
	closed bool
}

func NewFFmpegDevice() *FFmpegDevice {
	return &FFmpegDevice{}
}

func (d *FFmpegDevice) Open(c Constraints) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("%w: ffmpeg not found", domain.ErrCameraUnavailable)
	}

	dev := c.DeviceID
	var inputArgs []string
	switch runtime.GOOS {
	case "linux":
		if dev == "" {
			dev = "/dev/video0"
		}
		inputArgs = []string{"-f", "v4l2", "-framerate", fmt.Sprint(c.FPS), "-video_size", fmt.Sprintf("%dx%d", c.Width, c.Height), "-i", dev}
	case "darwin":
		if dev == "" {
			dev = "0"
		}
		inputArgs = []string{"-f", "avfoundation", "-framerate", fmt.Sprint(c.FPS), "-video_size", fmt.Sprintf("%dx%d", c.Width, c.Height), "-i", dev}
	case "windows":
		if dev == "" {
			dev = "Integrated Webcam"
		}
		inputArgs = []string{"-f", "dshow", "-i", "video=" + dev}
	default:
		return fmt.Errorf("%w: unsupported OS %s", domain.ErrCameraUnavailable, runtime.GOOS)
	}

	args := append([]string{"-hide_banner", "-loglevel", "error"}, inputArgs...)
	args = append(args,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-vf", fmt.Sprintf("scale=%d:%d", c.Width, c.Height),
		"-",
	)

	cmd := exec.Command(path, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConstraintsUnsatisfiable, err)
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return classifyStartError(err, stderr.String())
	}

	d.cmd = cmd
	d.stdout = stdout
	d.width = c.Width
	d.height = c.Height
	d.buf = make([]byte, c.Width*c.Height*3)
	d.closed = false
	return nil
}

func (d *FFmpegDevice) ReadFrame() (image.Image, error) {
	d.mu.Lock()
	stdout := d.stdout
	w, h := d.width, d.height
	buf := d.buf
	d.mu.Unlock()

	if stdout == nil {
		return nil, domain.ErrCaptureSurfaceNotReady
	}
	if _, err := io.ReadFull(stdout, buf); err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, j := 0, 0; i < len(buf); i, j = i+3, j+4 {
		img.Pix[j] = buf[i]
		img.Pix[j+1] = buf[i+1]
		img.Pix[j+2] = buf[i+2]
		img.Pix[j+3] = 0xff
	}
	return img, nil
}

func (d *FFmpegDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.stdout != nil {
		d.stdout.Close()
	}
	if d.cmd != nil && d.cmd.Process != nil {
		d.cmd.Process.Kill()
		d.cmd.Wait()
	}
	d.cmd = nil
	d.stdout = nil
	return nil
}

func classifyStartError(err error, stderr string) error {
	msg := strings.ToLower(err.Error() + " " + stderr)
	switch {
	case strings.Contains(msg, "permission denied") || strings.Contains(msg, "operation not permitted"):
		return fmt.Errorf("%w: %v", domain.ErrPermissionDenied, err)
	case strings.Contains(msg, "no such file") || strings.Contains(msg, "not found"):
		return fmt.Errorf("%w: %v", domain.ErrCameraUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrConstraintsUnsatisfiable, err)
	}
}
