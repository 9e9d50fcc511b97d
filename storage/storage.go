package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
)

// Blobs stores objects by path and hands out durable URLs for them.
type Blobs interface {
	Put(ctx context.Context, objectPath string, r io.Reader, contentType string) error
	URL(objectPath string) string
	Remove(ctx context.Context, objectPaths ...string) error
}

// File is an upload candidate taken from a multipart form.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ProgressFunc receives the transferred share of a file in percent.
type ProgressFunc func(percent float64)

type Upload struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type Uploader struct {
	blobs Blobs
	now   func() time.Time
}

func NewUploader(blobs Blobs) *Uploader {
	return &Uploader{blobs: blobs, now: time.Now}
}

// Upload stores file under namespace and resolves with its retrieval URL.
// Nothing is returned on failure, so callers cannot persist a dangling reference.
func (u *Uploader) Upload(ctx context.Context, namespace string, file File, progress ProgressFunc) (Upload, error) {
	objectPath := ObjectPath(namespace, file.Name, u.now())
	reader := &progressReader{r: file.Reader, total: file.Size, report: progress}

	if err := u.blobs.Put(ctx, objectPath, reader, file.ContentType); err != nil {
		return Upload{}, fmt.Errorf("upload %s: %w", objectPath, err)
	}
	reader.done()

	return Upload{Path: objectPath, URL: u.blobs.URL(objectPath)}, nil
}

// Discard removes an uploaded object that ended up unreferenced.
func (u *Uploader) Discard(ctx context.Context, upload Upload) error {
	if upload.Path == "" {
		return nil
	}
	if err := u.blobs.Remove(ctx, upload.Path); err != nil {
		return fmt.Errorf("remove %s: %w", upload.Path, err)
	}
	return nil
}

// ObjectPath builds "<namespace>/<unix millis>_<sanitized file name>".
func ObjectPath(namespace, fileName string, now time.Time) string {
	segments := []string{}
	for _, segment := range strings.Split(namespace, "/") {
		if s := sanitize(segment); s != "" {
			segments = append(segments, s)
		}
	}

	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	name := sanitize(base)
	if name == "" {
		name = "file"
	}

	segments = append(segments, fmt.Sprintf("%d_%s", now.UnixMilli(), name))
	return strings.Join(segments, "/")
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.TrimLeft(b.String(), ".")
}

// CheckFile rejects files whose content type is not allowed or that exceed maxBytes.
// A nil allowed list accepts any image type.
func CheckFile(file File, allowed []string, maxBytes int64) error {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(file.ContentType, ";")[0]))
	if allowed == nil {
		if !strings.HasPrefix(contentType, "image/") {
			return fmt.Errorf("%w: %q", ErrUnsupportedFile, contentType)
		}
	} else {
		ok := false
		for _, t := range allowed {
			if t == contentType {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnsupportedFile, contentType)
		}
	}
	if maxBytes > 0 && file.Size > maxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, file.Size, maxBytes)
	}
	return nil
}

const (
	MaxBioSize   = 5 * 1024 * 1024
	MaxImageSize = 10 * 1024 * 1024
)

// BioTypes are the accepted CV / bio formats: PDF, Word, JPEG and PNG.
var BioTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"image/jpeg",
	"image/png",
}

type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	reported bool
	report   ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		if p.report != nil && p.total > 0 {
			percent := float64(p.read) / float64(p.total) * 100
			if percent > 100 {
				percent = 100
			}
			p.report(percent)
			p.reported = percent == 100
		}
	}
	return n, err
}

// done reports completion when the size was unknown or the last read fell short.
func (p *progressReader) done() {
	if p.report != nil && !p.reported {
		p.report(100)
		p.reported = true
	}
}
