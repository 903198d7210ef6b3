package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/toricodesthings/ocr-service/internal/apperr"
)

const (
	uploadField   = "file"
	noFileMessage = "No file sent."
)

type upload struct {
	file        multipart.File
	filename    string
	contentType string
	size        int64
	form        *multipart.Form
}

// Close releases the part handle and any spill files of the parsed form.
func (u *upload) Close() {
	_ = u.file.Close()
	if u.form != nil {
		_ = u.form.RemoveAll()
	}
}

// receiveUpload extracts the file part. A body that is not multipart, or a
// multipart body without a file in the upload field, is a missing file.
func receiveUpload(r *http.Request, maxMemory int64) (*upload, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.ClientInput(fmt.Sprintf("File exceeds the %d byte upload limit.", tooLarge.Limit))
		}
		return nil, apperr.ClientInput(noFileMessage)
	}

	f, hdr, err := r.FormFile(uploadField)
	if err != nil {
		_ = r.MultipartForm.RemoveAll()
		return nil, apperr.ClientInput(noFileMessage)
	}

	return &upload{
		file:        f,
		filename:    hdr.Filename,
		contentType: hdr.Header.Get("Content-Type"),
		size:        hdr.Size,
		form:        r.MultipartForm,
	}, nil
}

// stageUpload copies the upload into a fresh temp directory under its
// original base name. cleanup removes the directory; on error it has
// already run.
func stageUpload(baseDir string, up *upload) (path string, cleanup func(), err error) {
	tmpDir, err := os.MkdirTemp(baseDir, "ocr-*")
	if err != nil {
		return "", nil, fmt.Errorf("temp dir: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(tmpDir) }

	outPath := filepath.Join(tmpDir, safeFilename(up.filename))

	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("create: %w", err)
	}

	if _, err := io.Copy(f, up.file); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close: %w", err)
	}

	return outPath, cleanup, nil
}

// safeFilename keeps only the last element of a client-supplied name.
func safeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	switch base {
	case "", ".", "..", "/":
		return "upload"
	}
	return base
}
