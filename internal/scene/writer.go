package scene

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/nerf.capture/internal/fsutil"
)

// Write serializes the document to path as indented JSON, overwriting any
// previous contents. Re-running a capture against the same output directory
// therefore replaces the old scene description rather than appending to it.
func Write(fsys fsutil.FileSystem, path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene description: %w", err)
	}
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene description: %w", err)
	}
	return nil
}

// Read loads a document previously produced by Write.
func Read(fsys fsutil.FileSystem, path string) (*Document, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene description: %w", err)
	}
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parse scene description: %w", err)
	}
	return doc, nil
}

// ScanFrames lists the frame image files under dir in name order. Only files
// matching the capture naming scheme (frame_*.png) are returned, so stray
// files in the directory do not end up in the scene description.
func ScanFrames(fsys fsutil.FileSystem, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frames dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match("frame_*.png", e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
