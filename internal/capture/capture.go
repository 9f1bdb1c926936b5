// Package capture drives a camera device through a fixed-length frame
// sequence and persists each frame as an image file.
//
// The package is deliberately hardware-free: callers supply a Device (the
// camera), an optional Preview (a display window), a Clock, and a FileSystem,
// so the sequencing logic can run under test with fakes. The gocv-backed
// implementations live in the webcam subpackage.
package capture

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/banshee-data/nerf.capture/internal/fsutil"
	"github.com/banshee-data/nerf.capture/internal/monitoring"
	"github.com/banshee-data/nerf.capture/internal/timeutil"
)

// Frame is a single image read from a Device. The frame is only valid until
// the next Device.Read call; save it before reading again.
type Frame interface {
	// Empty reports whether the frame holds no image data.
	Empty() bool
	// SaveTo encodes the frame and writes it to path. The encoding is
	// chosen from the path's extension.
	SaveTo(path string) error
}

// Device is a source of frames, typically a webcam.
type Device interface {
	Read() (Frame, error)
	Close() error
}

// Preview displays frames while a capture runs. Wait blocks for the given
// duration (providing the inter-frame pacing) and reports whether the user
// asked to stop, for example by pressing ESC or closing the window.
type Preview interface {
	Show(Frame) error
	Wait(d time.Duration) (stop bool)
	Close() error
}

// DeviceUnavailableError indicates a camera device could not be opened.
// Nothing is written to disk when a capture fails this way.
type DeviceUnavailableError struct {
	Index int
	Err   error
}

func (e *DeviceUnavailableError) Error() string {
	return fmt.Sprintf("video device %d unavailable: %v", e.Index, e.Err)
}

func (e *DeviceUnavailableError) Unwrap() error { return e.Err }

// StopReason describes why a capture sequence ended.
type StopReason string

const (
	// StopCompleted means every requested frame was captured.
	StopCompleted StopReason = "completed"
	// StopReadFailed means the device returned an error or an empty frame.
	StopReadFailed StopReason = "read_failed"
	// StopSaveFailed means a frame could not be written to disk.
	StopSaveFailed StopReason = "save_failed"
	// StopCancelled means the context was cancelled mid-sequence.
	StopCancelled StopReason = "cancelled"
	// StopUserClosed means the user stopped the capture from the preview.
	StopUserClosed StopReason = "user_closed"
)

// Options configures a capture sequence.
type Options struct {
	// FramesDir is the directory frame files are written into. It is
	// created (with parents) before the first frame is read.
	FramesDir string
	// Count is the number of frames to capture.
	Count int
	// Delay is the pause between consecutive frames.
	Delay time.Duration
}

// Result summarises a finished capture sequence. Files holds the bare file
// names of the frames that were written, in capture order; on an early stop
// it holds the partial sequence.
type Result struct {
	Files     []string
	Requested int
	Reason    StopReason
	Elapsed   time.Duration
}

// Completed reports whether the full requested sequence was captured.
func (r Result) Completed() bool { return r.Reason == StopCompleted }

// Sequencer runs a single capture sequence against a device.
type Sequencer struct {
	dev     Device
	preview Preview
	clock   timeutil.Clock
	fs      fsutil.FileSystem
	opts    Options

	ran bool
}

// NewSequencer builds a Sequencer. preview may be nil for headless capture;
// pacing then falls back to the clock.
func NewSequencer(dev Device, preview Preview, clock timeutil.Clock, fs fsutil.FileSystem, opts Options) *Sequencer {
	return &Sequencer{
		dev:     dev,
		preview: preview,
		clock:   clock,
		fs:      fs,
		opts:    opts,
	}
}

// Run captures up to opts.Count frames, writing frame_000.png, frame_001.png,
// and so on into opts.FramesDir. It stops early on context cancellation, a
// device or disk failure, or a stop request from the preview; frames already
// written stay on disk. The error return is reserved for failures to set up
// the frames directory, and for calling Run twice; per-frame failures are
// reported through Result.Reason instead.
func (s *Sequencer) Run(ctx context.Context) (Result, error) {
	if s.ran {
		return Result{}, errors.New("sequencer already ran")
	}
	s.ran = true

	res := Result{Requested: s.opts.Count, Reason: StopCompleted}

	if err := s.fs.MkdirAll(s.opts.FramesDir, 0755); err != nil {
		return Result{}, fmt.Errorf("create frames dir: %w", err)
	}

	start := s.clock.Now()
	monitoring.Logf("capturing %d frames (move slowly around object)", s.opts.Count)

	for i := 0; i < s.opts.Count; i++ {
		if ctx.Err() != nil {
			monitoring.Logf("capture cancelled after %d of %d frames", i, s.opts.Count)
			res.Reason = StopCancelled
			break
		}

		frame, err := s.dev.Read()
		if err != nil {
			monitoring.Logf("read frame %d: %v", i, err)
			res.Reason = StopReadFailed
			break
		}
		if frame.Empty() {
			monitoring.Logf("read frame %d: empty frame", i)
			res.Reason = StopReadFailed
			break
		}

		name := fmt.Sprintf("frame_%03d.png", i)
		if err := frame.SaveTo(filepath.Join(s.opts.FramesDir, name)); err != nil {
			monitoring.Logf("save frame %d: %v", i, err)
			res.Reason = StopSaveFailed
			break
		}
		res.Files = append(res.Files, name)

		if s.preview != nil {
			if err := s.preview.Show(frame); err != nil {
				monitoring.Logf("preview frame %d: %v", i, err)
			}
			if s.preview.Wait(s.opts.Delay) {
				monitoring.Logf("capture stopped from preview after %d of %d frames", i+1, s.opts.Count)
				res.Reason = StopUserClosed
				break
			}
		} else {
			s.clock.Sleep(s.opts.Delay)
		}
	}

	res.Elapsed = s.clock.Since(start)
	return res, nil
}
