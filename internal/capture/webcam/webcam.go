// Package webcam implements the capture interfaces on top of gocv, the Go
// bindings for OpenCV. It is kept separate from the capture package so the
// sequencing logic and its tests build without OpenCV installed.
package webcam

import (
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/banshee-data/nerf.capture/internal/capture"
	"github.com/banshee-data/nerf.capture/internal/monitoring"
)

const escapeKey = 27

var (
	_ capture.Device  = (*Device)(nil)
	_ capture.Frame   = (*Frame)(nil)
	_ capture.Preview = (*Window)(nil)
)

// Device wraps a gocv video capture. It owns a single Mat that successive
// Read calls overwrite, mirroring how OpenCV loops reuse one image buffer.
type Device struct {
	cap   *gocv.VideoCapture
	mat   gocv.Mat
	index int
}

// Open opens the video device at index and requests the given frame size.
// The size is a request, not a guarantee; drivers are free to pick the
// nearest mode they support. An open failure is reported as a
// *capture.DeviceUnavailableError.
func Open(index, width, height int) (*Device, error) {
	cam, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, &capture.DeviceUnavailableError{Index: index, Err: err}
	}

	cam.Set(gocv.VideoCaptureFrameWidth, float64(width))
	cam.Set(gocv.VideoCaptureFrameHeight, float64(height))
	monitoring.Logf("opened video device %d at %.0fx%.0f", index,
		cam.Get(gocv.VideoCaptureFrameWidth), cam.Get(gocv.VideoCaptureFrameHeight))

	return &Device{cap: cam, mat: gocv.NewMat(), index: index}, nil
}

// Read grabs the next frame from the device. The returned frame shares the
// device's buffer and is only valid until the next Read.
func (d *Device) Read() (capture.Frame, error) {
	if ok := d.cap.Read(&d.mat); !ok {
		return nil, fmt.Errorf("read from video device %d failed", d.index)
	}
	return &Frame{mat: &d.mat}, nil
}

// Close releases the frame buffer and the device.
func (d *Device) Close() error {
	if err := d.mat.Close(); err != nil {
		return fmt.Errorf("close frame buffer: %w", err)
	}
	if err := d.cap.Close(); err != nil {
		return fmt.Errorf("close video device %d: %w", d.index, err)
	}
	return nil
}

// Frame is a single image backed by a gocv Mat.
type Frame struct {
	mat *gocv.Mat
}

// Empty reports whether the frame holds no image data.
func (f *Frame) Empty() bool { return f.mat.Empty() }

// SaveTo writes the frame to path, with the format chosen from the
// extension.
func (f *Frame) SaveTo(path string) error {
	if ok := gocv.IMWrite(path, *f.mat); !ok {
		return fmt.Errorf("write image %s failed", path)
	}
	return nil
}

// Window is an on-screen preview backed by an OpenCV highgui window.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a preview window with the given title.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show displays the frame in the window.
func (w *Window) Show(f capture.Frame) error {
	wf, ok := f.(*Frame)
	if !ok {
		return fmt.Errorf("preview needs a webcam frame, got %T", f)
	}
	w.win.IMShow(*wf.mat)
	return nil
}

// Wait pumps the window's event loop for d and reports whether the user
// asked to stop, either with ESC or by closing the window. The wait doubles
// as the pacing between frames, the same role cv2.waitKey plays in OpenCV
// capture loops.
func (w *Window) Wait(d time.Duration) bool {
	ms := int(d.Milliseconds())
	if ms <= 0 {
		ms = 1 // WaitKey(0) would block until a key press
	}
	if key := w.win.WaitKey(ms); key == escapeKey {
		return true
	}
	return w.win.GetWindowProperty(gocv.WindowPropertyVisible) < 1
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
