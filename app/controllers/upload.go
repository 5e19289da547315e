package controllers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/zmaxim/skystore/pkg/logger"
	"github.com/zmaxim/skystore/pkg/storage"
)

// maxImageBytes caps uploaded images at 5 MB.
const maxImageBytes = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// saveImage validates and stores a multipart image upload under dir on the
// default disk. Returns the stored path or a human-readable problem.
func saveImage(r *http.Request, field, dir string) (path string, problem string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxImageBytes+4096)

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		return "", "image must be a multipart upload of at most 5 MB", nil
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", fmt.Sprintf("missing file field %q", field), nil
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		return "", "image exceeds the 5 MB limit", nil
	}

	// Sniff the real content type; the client-supplied header and the file
	// extension are both unreliable.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", "", err
	}
	head = head[:n]

	ext, ok := allowedImageTypes[http.DetectContentType(head)]
	if !ok {
		return "", "only jpeg and png images are accepted", nil
	}

	name := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	name = sanitizeFilename(name)
	if name == "" {
		name = "image"
	}

	path = fmt.Sprintf("%s/%d_%s%s", strings.Trim(dir, "/"), time.Now().UnixNano(), name, ext)

	content := io.MultiReader(bytes.NewReader(head), file)
	if err := storage.PutStream(path, content); err != nil {
		return "", "", err
	}
	return path, "", nil
}

// discardUpload removes a stored file after the request that uploaded it
// failed, so rejected requests leave nothing behind on the disk.
func discardUpload(path string) {
	if err := storage.Delete(path); err != nil {
		logger.Warn("upload: could not remove discarded file", "path", path, "error", err)
	}
}

func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
