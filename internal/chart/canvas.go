package chart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileCanvas paints charts as PNG files under a directory.
type FileCanvas struct {
	Name   string
	Dir    string
	Width  int
	Height int

	mu      sync.Mutex
	painted bool
}

// NewFileCanvas creates a canvas writing to dir/name.png.
func NewFileCanvas(dir, name string, width, height int) *FileCanvas {
	return &FileCanvas{Name: name, Dir: dir, Width: width, Height: height}
}

func (f *FileCanvas) ID() string { return f.Name }

func (f *FileCanvas) Size() (int, int) { return f.Width, f.Height }

// Path is the file the canvas paints to.
func (f *FileCanvas) Path() string {
	return filepath.Join(f.Dir, f.Name+".png")
}

// Painted reports whether the canvas currently shows a chart.
func (f *FileCanvas) Painted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.painted
}

func (f *FileCanvas) Paint(png []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	tmp := f.Path() + ".tmp"
	if err := os.WriteFile(tmp, png, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	if err := os.Rename(tmp, f.Path()); err != nil {
		return fmt.Errorf("replace chart: %w", err)
	}
	f.painted = true
	return nil
}

func (f *FileCanvas) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.painted = false
	if err := os.Remove(f.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
