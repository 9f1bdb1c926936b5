// Package scene builds and serializes the transforms.json scene description
// consumed by instant-ngp: one camera pose per captured frame plus the
// horizontal field of view.
package scene

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Synthetic orbit parameters. The capture rig does not track real camera
// motion, so poses are placed on a circle around the subject.
const (
	orbitRadius = 2.0
	orbitHeight = 0.2
)

// ErrNoFrames is returned by Build when the capture produced no frames.
// A scene description with zero poses would make the angle step undefined
// and is useless to the reconstruction tool, so the caller must treat the
// run as failed instead.
var ErrNoFrames = errors.New("no frames to describe")

// Frame pairs one captured image with its camera pose.
type Frame struct {
	FilePath        string      `json:"file_path"`
	TransformMatrix [][]float64 `json:"transform_matrix"`
}

// Document is the scene description written to transforms.json. Field order
// matters: the external tool's examples list frames before camera_angle_x and
// we keep that layout.
type Document struct {
	Frames       []Frame `json:"frames"`
	CameraAngleX float64 `json:"camera_angle_x"`
}

// Pose returns the 4x4 homogeneous transform for the index-th of total
// frames. The pose is fully determined by (index, total): the camera sits at
// angle 2*pi*index/total on a circle of radius 2.0 at height 0.2.
// total must be at least 1.
//
// The rotation block is left as the identity; only the translation varies.
// TODO: replace the identity with a look-at rotation toward the origin so
// each pose actually faces the subject.
func Pose(index, total int) *mat.Dense {
	angle := 2 * math.Pi * float64(index) / float64(total)
	tx := math.Cos(angle) * orbitRadius
	ty := orbitHeight
	tz := math.Sin(angle) * orbitRadius

	return mat.NewDense(4, 4, []float64{
		1, 0, 0, tx,
		0, 1, 0, ty,
		0, 0, 1, tz,
		0, 0, 0, 1,
	})
}

// Build assembles the scene description for an ordered list of captured
// frame filenames. File paths are written relative to the transforms.json
// location with forward slashes, matching what the reconstruction tool
// expects on every platform.
func Build(names []string, cameraAngleX float64) (*Document, error) {
	if len(names) == 0 {
		return nil, ErrNoFrames
	}

	doc := &Document{
		Frames:       make([]Frame, 0, len(names)),
		CameraAngleX: cameraAngleX,
	}
	for i, name := range names {
		doc.Frames = append(doc.Frames, Frame{
			FilePath:        "./frames/" + name,
			TransformMatrix: matrixRows(Pose(i, len(names))),
		})
	}
	return doc, nil
}

// matrixRows converts a dense matrix into the nested-array shape the JSON
// format uses.
func matrixRows(m *mat.Dense) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = m.At(i, j)
		}
		rows[i] = row
	}
	return rows
}
