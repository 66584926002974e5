package binder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// DefaultMaxFileSize is the default limit for a single uploaded file (32MB).
const DefaultMaxFileSize = 32 << 20

const readChunkSize = 32 << 10

var errLimitExceeded = errors.New("read limit exceeded")

// UploadFile is the handle delivered for FileHandle parameters. The content
// stays in the multipart form until Open or Read is called.
type UploadFile struct {
	Filename string
	Size     int64

	header  *multipart.FileHeader
	maxSize int64
}

func newUploadFile(fh *multipart.FileHeader, maxSize int64) *UploadFile {
	return &UploadFile{
		Filename: fh.Filename,
		Size:     fh.Size,
		header:   fh,
		maxSize:  maxSize,
	}
}

// ContentType returns the Content-Type the client declared for the part.
func (u *UploadFile) ContentType() string {
	return u.header.Header.Get("Content-Type")
}

// Open opens the uploaded content. The caller must close it.
func (u *UploadFile) Open() (multipart.File, error) {
	return u.header.Open()
}

// Read returns the whole content. The read is bounded by the binder's maximum
// file size and stops when ctx is cancelled.
func (u *UploadFile) Read(ctx context.Context) ([]byte, error) {
	data, err := readFile(ctx, u.header, u.maxSize)
	if errors.Is(err, errLimitExceeded) {
		return nil, ErrFileTooLarge
	}
	return data, err
}

func readFile(ctx context.Context, fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readAll(ctx, f, limit)
}

// readAll reads r in chunks up to limit bytes, checking ctx between chunks.
// It returns errLimitExceeded when r holds more than limit bytes.
func readAll(ctx context.Context, r io.Reader, limit int64) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	lr := io.LimitReader(r, limit+1)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := lr.Read(chunk)
		buf.Write(chunk[:n])
		if int64(buf.Len()) > limit {
			return nil, errLimitExceeded
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// sanitizeFilename removes any path components and dangerous characters from a filename
// to prevent path traversal attacks and other security issues.
func sanitizeFilename(filename string) string {
	// Normalize Windows separators so filepath.Base strips them too.
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return filename
}
