// Package source opens nuPython programs for the scanner.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrSourceTooLarge = errors.New("source: program size limit exceeded")
	ErrNotRegular     = errors.New("source: not a regular file")
)

// File is an open program file read through a buffer.
type File struct {
	*bufio.Reader
	Name string
	f    *os.File
}

func (f *File) Close() error {
	return f.f.Close()
}

// Open opens path for scanning. Only regular files are accepted. Files
// larger than maxBytes are refused; maxBytes <= 0 disables the check.
func Open(path string, maxBytes int64) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		f.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrSourceTooLarge, path, info.Size(), maxBytes)
	}

	return &File{Reader: bufio.NewReader(f), Name: path, f: f}, nil
}

// Keyboard returns the buffered reader the program text and input() share.
// A reader that is already buffered is returned unchanged.
func Keyboard(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// SkipBlankLine consumes spaces, tabs and CRs through the next newline, so
// the first input() after a keyboard program reads the line below the '$'.
// It stops early, leaving the byte unread, at anything else.
func SkipBlankLine(br *bufio.Reader) {
	for {
		c, err := br.ReadByte()
		if err != nil || c == '\n' {
			return
		}
		if c != ' ' && c != '\t' && c != '\r' {
			br.UnreadByte()
			return
		}
	}
}
