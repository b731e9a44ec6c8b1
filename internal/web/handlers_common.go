package web

// handlers_common.go holds request parsing shared by the page and API handlers.

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JonMunkholm/explorer/internal/core"
)

// multipartOverhead is the allowance for multipart boundaries and headers on
// top of the configured file size.
const multipartOverhead = 64 << 10

// maxMemory is how much of a multipart form is buffered in memory before
// spilling to temporary files.
const maxMemory = 32 << 20

// readUploadedFile returns the name and contents of the "file" form field.
// It reports core.ErrNoFile when the field is missing and core.ErrFileTooLarge
// when the file exceeds the configured limit.
func (s *Server) readUploadedFile(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, maxSize)
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return "", nil, core.ErrNoFile
		}
		return "", nil, fmt.Errorf("parse upload form: %w", err)
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, core.ErrNoFile
	}
	defer file.Close()

	name := strings.TrimSpace(header.Filename)
	if name == "" {
		return "", nil, core.ErrNoFile
	}
	if header.Size > maxSize {
		return "", nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", core.ErrFileTooLarge, name, header.Size, maxSize)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return "", nil, fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, maxSize)
	}
	return name, data, nil
}
