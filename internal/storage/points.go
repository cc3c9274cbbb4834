package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"os"
)

var ErrTruncated = errors.New("storage: point file ends mid-point")

// PointFile holds the raw little-endian float64 samples of one trajectory.
type PointFile struct {
	f   *os.File
	buf []byte
}

func CreatePointFile(path string) (*PointFile, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return nil, err
	}
	return &PointFile{f: f, buf: make([]byte, 0, 64<<10)}, nil
}

// Replace truncates the file and writes the given blocks of samples in order.
func (p *PointFile) Replace(blocks iter.Seq[[]float64]) error {
	if _, err := p.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := p.f.Truncate(0); err != nil {
		return err
	}

	for pts := range blocks {
		for _, v := range pts {
			if len(p.buf)+8 > cap(p.buf) {
				if err := p.flush(); err != nil {
					return err
				}
			}
			p.buf = binary.LittleEndian.AppendUint64(p.buf, math.Float64bits(v))
		}
	}
	return p.flush()
}

func (p *PointFile) flush() error {
	n, err := p.f.Write(p.buf)
	if err == nil && n != len(p.buf) {
		err = io.ErrShortWrite
	}
	p.buf = p.buf[:0]
	return err
}

func (p *PointFile) Close() error {
	return p.f.Close()
}

// LoadPoints reads a point file written by PointFile.
func LoadPoints(path string, dim int) ([][]float64, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("storage: invalid dimension %d", dim)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64<<10)
	raw := make([]byte, 8*dim)
	var points [][]float64
	for {
		_, err := io.ReadFull(r, raw)
		if err == io.EOF {
			return points, nil
		}
		if err == io.ErrUnexpectedEOF {
			return points, ErrTruncated
		}
		if err != nil {
			return nil, err
		}

		p := make([]float64, dim)
		for i := range p {
			p[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		points = append(points, p)
	}
}
