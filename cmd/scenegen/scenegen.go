// Command scenegen rebuilds transforms.json for an existing frames
// directory. Use it after hand-pruning blurry frames from a capture: the
// poses are a pure function of frame order and count, so the document must
// be regenerated whenever frames are removed.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/banshee-data/nerf.capture/internal/fsutil"
	"github.com/banshee-data/nerf.capture/internal/scene"
	"github.com/banshee-data/nerf.capture/internal/units"
	"github.com/banshee-data/nerf.capture/internal/version"
)

var (
	framesDir   = flag.String("frames-dir", "ngp_test/frames", "Directory holding frame_NNN.png files")
	outPath     = flag.String("out", "", "Output path (default: transforms.json next to the frames dir)")
	fov         = flag.Float64("fov", 0.8, "Horizontal camera field of view")
	fovUnit     = flag.String("fov-unit", units.Radians, "Field of view units ("+units.GetValidUnitsString()+")")
	plotPath    = flag.String("plot", "", "Write a top-down trajectory plot to this file")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("nerf-scenegen %s\n", version.String())
		return
	}

	if !units.IsValid(*fovUnit) {
		log.Fatalf("Invalid -fov-unit %q (valid: %s)", *fovUnit, units.GetValidUnitsString())
	}
	angle := units.ToRadians(*fov, *fovUnit)

	// The document references frames as ./frames/<name> relative to its own
	// location, so a differently named directory will not resolve.
	if filepath.Base(*framesDir) != "frames" {
		log.Printf("warning: %s is not named 'frames'; instant-ngp resolves file_path relative to transforms.json", *framesDir)
	}

	fs := fsutil.OSFileSystem{}

	names, err := scene.ScanFrames(fs, *framesDir)
	if err != nil {
		log.Fatalf("Failed to scan %s: %v", *framesDir, err)
	}
	log.Printf("found %d frames in %s", len(names), *framesDir)

	doc, err := scene.Build(names, angle)
	if err != nil {
		log.Fatalf("Failed to build scene description: %v", err)
	}

	out := defaultOutPath(*framesDir, *outPath)
	if err := scene.Write(fs, out, doc); err != nil {
		log.Fatalf("Failed to write %s: %v", out, err)
	}
	log.Printf("wrote %s with %d frames", out, len(doc.Frames))

	if *plotPath != "" {
		if err := scene.PlotTrajectory(doc, *plotPath); err != nil {
			log.Fatalf("Failed to plot trajectory: %v", err)
		}
		log.Printf("wrote trajectory plot %s", *plotPath)
	}
}

// defaultOutPath places the document next to the frames directory unless an
// explicit output path was given.
func defaultOutPath(framesDir, out string) string {
	if out != "" {
		return out
	}
	return filepath.Join(filepath.Dir(framesDir), "transforms.json")
}
