// Command capture records a webcam frame sequence and writes an instant-ngp
// training dataset: ./<out>/frames/frame_NNN.png plus ./<out>/transforms.json
// describing a circular camera path around the subject.
//
// Run with no arguments it captures 20 frames at 640x480 from device 0 and
// finishes by printing the instant-ngp setup instructions. The process exits
// 0 even when the capture itself fails; the console output says what
// happened.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/banshee-data/nerf.capture/internal/capture"
	"github.com/banshee-data/nerf.capture/internal/capture/webcam"
	"github.com/banshee-data/nerf.capture/internal/config"
	"github.com/banshee-data/nerf.capture/internal/fsutil"
	"github.com/banshee-data/nerf.capture/internal/ngp"
	"github.com/banshee-data/nerf.capture/internal/scene"
	"github.com/banshee-data/nerf.capture/internal/session"
	"github.com/banshee-data/nerf.capture/internal/timeutil"
	"github.com/banshee-data/nerf.capture/internal/units"
	"github.com/banshee-data/nerf.capture/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a JSON capture config (explicit flags override it)")
	outputDir   = flag.String("out", "ngp_test", "Base directory for the dataset")
	frameCount  = flag.Int("frames", 20, "Number of frames to capture")
	deviceIndex = flag.Int("device", 0, "Video device index")
	frameWidth  = flag.Int("width", 640, "Requested frame width in pixels")
	frameHeight = flag.Int("height", 480, "Requested frame height in pixels")
	frameDelay  = flag.Int("delay", 200, "Delay between frames in milliseconds")
	fov         = flag.Float64("fov", 0.8, "Horizontal camera field of view")
	fovUnit     = flag.String("fov-unit", units.Radians, "Field of view units ("+units.GetValidUnitsString()+")")
	noPreview   = flag.Bool("no-preview", false, "Capture without the preview window")
	plotPath    = flag.String("plot", "", "Write a top-down trajectory plot to this file")
	dbPath      = flag.String("db", "", "Record the run in this session database")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("nerf-capture %s\n", version.String())
		return
	}

	cfg := resolveConfig()

	if flag.NArg() > 0 {
		if flag.Arg(0) == "sessions" {
			if err := session.RunSessionsCommand(flag.Args()[1:], cfg.GetDBPath()); err != nil {
				log.Fatalf("sessions command failed: %v", err)
			}
			return
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", flag.Arg(0))
		os.Exit(1)
	}

	runCapture(cfg)
}

// resolveConfig layers the three configuration sources: package defaults,
// then the optional config file, then any explicitly set flags.
func resolveConfig() *config.CaptureConfig {
	cfg := config.EmptyCaptureConfig()

	if *configPath != "" {
		loaded, err := config.LoadCaptureConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
		cfg = loaded
	}

	cfg = config.Merge(cfg, flagOverrides())
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// flagOverrides converts the flags the user actually set into a config
// overlay. Flags left at their defaults stay nil so config-file values
// survive the merge.
func flagOverrides() *config.CaptureConfig {
	o := config.EmptyCaptureConfig()

	var fovChanged bool
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			v := *outputDir
			o.OutputDir = &v
		case "frames":
			v := *frameCount
			o.FrameCount = &v
		case "device":
			v := *deviceIndex
			o.DeviceIndex = &v
		case "width":
			v := *frameWidth
			o.FrameWidth = &v
		case "height":
			v := *frameHeight
			o.FrameHeight = &v
		case "delay":
			v := fmt.Sprintf("%dms", *frameDelay)
			o.FrameDelay = &v
		case "fov", "fov-unit":
			fovChanged = true
		case "no-preview":
			v := !*noPreview
			o.Preview = &v
		case "plot":
			v := *plotPath
			o.PlotPath = &v
		case "db":
			v := *dbPath
			o.DBPath = &v
		}
	})

	if fovChanged {
		if !units.IsValid(*fovUnit) {
			log.Fatalf("Invalid -fov-unit %q (valid: %s)", *fovUnit, units.GetValidUnitsString())
		}
		v := units.ToRadians(*fov, *fovUnit)
		o.CameraAngleX = &v
	}

	return o
}

func runCapture(cfg *config.CaptureConfig) {
	fmt.Println("=== Instant NGP Webcam Mesh Enhancement Test ===")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := fsutil.OSFileSystem{}

	// Optional session ledger. Runs are recorded including failed ones;
	// the ledger lives outside the dataset directory.
	var store *session.Store
	var sess *session.Session
	if path := cfg.GetDBPath(); path != "" {
		db, err := session.OpenDB(path)
		if err != nil {
			log.Printf("session ledger unavailable, continuing without it: %v", err)
		} else {
			defer db.Close()
			store = session.NewStore(db)
			sess = &session.Session{
				DeviceIndex:     cfg.GetDeviceIndex(),
				Width:           cfg.GetFrameWidth(),
				Height:          cfg.GetFrameHeight(),
				FramesRequested: cfg.GetFrameCount(),
				OutputDir:       cfg.GetOutputDir(),
			}
			if err := store.Insert(sess); err != nil {
				log.Printf("record session: %v", err)
				store = nil
			}
		}
	}

	dev, err := webcam.Open(cfg.GetDeviceIndex(), cfg.GetFrameWidth(), cfg.GetFrameHeight())
	if err != nil {
		var devErr *capture.DeviceUnavailableError
		if errors.As(err, &devErr) {
			log.Printf("could not open video device %d: %v", devErr.Index, devErr.Err)
		} else {
			log.Printf("open video device: %v", err)
		}
		finishSession(store, sess, 0, session.StatusFailed, "device unavailable")
		fmt.Println("Failed to capture frames")
		return
	}
	defer dev.Close()

	var preview capture.Preview
	if cfg.GetPreview() {
		win := webcam.NewWindow("Capture")
		defer win.Close()
		preview = win
	}

	outDir := cfg.GetOutputDir()
	opts := capture.Options{
		FramesDir: filepath.Join(outDir, "frames"),
		Count:     cfg.GetFrameCount(),
		Delay:     cfg.GetFrameDelay(),
	}

	res, err := capture.NewSequencer(dev, preview, timeutil.RealClock{}, fs, opts).Run(ctx)
	if err != nil {
		log.Printf("capture failed: %v", err)
		finishSession(store, sess, 0, session.StatusFailed, err.Error())
		fmt.Println("Failed to capture frames")
		return
	}
	log.Printf("captured %d of %d frames in %s (%s)",
		len(res.Files), res.Requested, res.Elapsed.Round(time.Millisecond), res.Reason)

	doc, err := scene.Build(res.Files, cfg.GetCameraAngleX())
	if err != nil {
		if errors.Is(err, scene.ErrNoFrames) {
			log.Printf("no frames captured (%s)", res.Reason)
		} else {
			log.Printf("build scene description: %v", err)
		}
		finishSession(store, sess, 0, session.StatusFailed, string(res.Reason))
		fmt.Println("Failed to capture frames")
		return
	}

	outPath := filepath.Join(outDir, "transforms.json")
	if err := scene.Write(fs, outPath, doc); err != nil {
		log.Printf("write scene description: %v", err)
		finishSession(store, sess, len(res.Files), session.StatusFailed, "descriptor write failed")
		return
	}
	log.Printf("wrote %s with %d frames", outPath, len(doc.Frames))

	if plotFile := cfg.GetPlotPath(); plotFile != "" {
		if err := scene.PlotTrajectory(doc, plotFile); err != nil {
			log.Printf("trajectory plot failed: %v", err)
		} else {
			log.Printf("wrote trajectory plot %s", plotFile)
		}
	}

	finishSession(store, sess, len(res.Files), sessionStatus(res), string(res.Reason))

	fmt.Println()
	if err := ngp.Print(os.Stdout, outDir); err != nil {
		var setupErr *ngp.SetupError
		if errors.As(err, &setupErr) {
			log.Printf("setup instructions not shown (%s): %v", setupErr.Step, setupErr.Err)
		} else {
			log.Printf("setup instructions not shown: %v", err)
		}
	}

	fmt.Println()
	fmt.Println("Setup complete! Follow the instructions above to run instant-ngp.")
	fmt.Println("After running, you can export the mesh with:")
	fmt.Printf("   %s\n", ngp.MeshExportHint())

	angle := cfg.GetCameraAngleX()
	log.Printf("dataset %s: %d frames, camera_angle_x %.3f rad (%.1f degrees), focal length %.1fpx at width %d",
		outDir, len(doc.Frames), angle, units.ToDegrees(angle),
		units.FocalLengthPx(angle, cfg.GetFrameWidth()), cfg.GetFrameWidth())
}

// sessionStatus maps a capture result onto a ledger status.
func sessionStatus(res capture.Result) string {
	switch {
	case len(res.Files) == 0:
		return session.StatusFailed
	case res.Completed():
		return session.StatusComplete
	default:
		return session.StatusPartial
	}
}

func finishSession(store *session.Store, sess *session.Session, captured int, status, notes string) {
	if store == nil || sess == nil {
		return
	}
	if err := store.Finish(sess.ID, captured, status, notes); err != nil {
		log.Printf("record session: %v", err)
	}
}
