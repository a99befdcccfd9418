package pcd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/seqsense/pcgol/pc"
)

var (
	ErrFileRead  = errors.New("cloud reading failed")
	ErrFileWrite = errors.New("cloud writing failed")
)

// Source supplies input points.
type Source interface {
	Load(path string) ([]Point, error)
}

// Sink stores output points.
type Sink interface {
	Write(path string, pts []ColoredPoint) error
}

// FileIO reads and writes PCD files on the local filesystem.
type FileIO struct{}

func (FileIO) Load(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileRead, err)
	}
	defer f.Close()

	pts, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileRead, path, err)
	}
	return pts, nil
}

func (FileIO) Write(path string, pts []ColoredPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, pts); err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %w", ErrFileWrite, path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %w", ErrFileWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileWrite, path, err)
	}
	return nil
}

// Decode parses a PCD stream.
func Decode(r io.Reader) ([]Point, error) {
	pp, err := pc.Unmarshal(r)
	if err != nil {
		return nil, err
	}
	return FromPointCloud(pp)
}

// Encode writes colored points as a PCD stream.
func Encode(w io.Writer, pts []ColoredPoint) error {
	pp, err := NewColoredPointCloud(pts)
	if err != nil {
		return err
	}
	return pc.Marshal(pp, w)
}
