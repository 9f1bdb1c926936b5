package fsutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	osfs := OSFileSystem{}

	if !osfs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}

	if osfs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_ReadFile(t *testing.T) {
	osfs := OSFileSystem{}

	data, err := osfs.ReadFile("filesystem.go")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if len(data) == 0 {
		t.Error("expected non-empty file content")
	}
}

func TestOSFileSystem_WriteAndReadDir(t *testing.T) {
	osfs := OSFileSystem{}
	dir := t.TempDir()

	sub := filepath.Join(dir, "frames")
	if err := osfs.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	for _, name := range []string{"b.png", "a.png"} {
		if err := osfs.WriteFile(filepath.Join(sub, name), []byte{1}, 0644); err != nil {
			t.Fatalf("WriteFile %s failed: %v", name, err)
		}
	}

	entries, err := osfs.ReadDir(sub)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// os.ReadDir sorts by name
	if entries[0].Name() != "a.png" || entries[1].Name() != "b.png" {
		t.Errorf("got order %s, %s; want a.png, b.png", entries[0].Name(), entries[1].Name())
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	testData := []byte("hello, world")
	err := mfs.WriteFile("/test.txt", testData, 0644)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := mfs.ReadFile("/test.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if string(data) != string(testData) {
		t.Errorf("expected %q, got %q", testData, data)
	}
}

func TestMemoryFileSystem_ReadFile_NotExist(t *testing.T) {
	mfs := NewMemoryFileSystem()

	_, err := mfs.ReadFile("/missing.txt")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_ReadFile_ReturnsCopy(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.WriteFile("/test.txt", []byte("abc"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := mfs.ReadFile("/test.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	data[0] = 'x'

	again, _ := mfs.ReadFile("/test.txt")
	if string(again) != "abc" {
		t.Errorf("stored data mutated: got %q, want %q", again, "abc")
	}
}

func TestMemoryFileSystem_MkdirAll_CreatesParents(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.MkdirAll("/a/b/c", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	for _, dir := range []string{"/a", "/a/b", "/a/b/c"} {
		if !mfs.Exists(dir) {
			t.Errorf("expected %s to exist", dir)
		}
	}
}

func TestMemoryFileSystem_ReadDir(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.MkdirAll("/out/frames", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, name := range []string{"frame_002.png", "frame_000.png", "frame_001.png"} {
		if err := mfs.WriteFile("/out/frames/"+name, []byte{1, 2}, 0644); err != nil {
			t.Fatalf("WriteFile %s failed: %v", name, err)
		}
	}
	// a file nested one level down must not appear in the listing
	if err := mfs.MkdirAll("/out/frames/sub", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := mfs.WriteFile("/out/frames/sub/deep.png", []byte{1}, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	entries, err := mfs.ReadDir("/out/frames")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	want := []string{"frame_000.png", "frame_001.png", "frame_002.png", "sub"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i].Name() != name {
			t.Errorf("entry %d: got %q, want %q", i, entries[i].Name(), name)
		}
	}

	if !entries[3].IsDir() {
		t.Error("expected sub to be a directory")
	}
	if entries[0].IsDir() {
		t.Error("expected frame_000.png to be a file")
	}

	info, err := entries[0].Info()
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.Size() != 2 {
		t.Errorf("Info size: got %d, want 2", info.Size())
	}
}

func TestMemoryFileSystem_ReadDir_NotExist(t *testing.T) {
	mfs := NewMemoryFileSystem()

	_, err := mfs.ReadDir("/nope")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_Exists(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if mfs.Exists("/anything") {
		t.Error("empty filesystem should contain nothing")
	}

	if err := mfs.WriteFile("/f.txt", nil, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if !mfs.Exists("/f.txt") {
		t.Error("expected /f.txt to exist")
	}

	if err := mfs.MkdirAll("/d", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if !mfs.Exists("/d") {
		t.Error("expected /d to exist")
	}
}

func TestMemoryFileSystem_ReadFile_Directory(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.MkdirAll("/frames", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	_, err := mfs.ReadFile("/frames")
	if !errors.Is(err, fs.ErrInvalid) {
		t.Errorf("reading a directory: expected fs.ErrInvalid, got %v", err)
	}
}

func TestMemoryFileSystem_MkdirAll_FileInPath(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.WriteFile("/out", []byte{1}, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := mfs.MkdirAll("/out/frames", 0755); !errors.Is(err, fs.ErrExist) {
		t.Errorf("mkdir through a file: expected fs.ErrExist, got %v", err)
	}
}

func TestMemoryFileSystem_Overwrite(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.WriteFile("/doc.json", []byte("first"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := mfs.WriteFile("/doc.json", []byte("second"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := mfs.ReadFile("/doc.json")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("got %q, want %q", data, "second")
	}
}
