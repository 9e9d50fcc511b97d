package storage

import (
	"context"
	"io"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

var _ Blobs = (*Supabase)(nil)

// Supabase keeps objects in one bucket of a Supabase storage project.
type Supabase struct {
	client *storage_go.Client
	bucket string
}

func NewSupabase(projectURL, apiKey, bucket string) *Supabase {
	client := storage_go.NewClient(strings.TrimSuffix(projectURL, "/")+"/storage/v1", apiKey, nil)
	return &Supabase{client: client, bucket: bucket}
}

// Put uploads r. The storage client has no context support; ctx is only checked up front.
func (s *Supabase) Put(ctx context.Context, objectPath string, r io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	upsert := false
	_, err := s.client.UploadFile(s.bucket, objectPath, r, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	return err
}

func (s *Supabase) URL(objectPath string) string {
	return s.client.GetPublicUrl(s.bucket, objectPath).SignedURL
}

func (s *Supabase) Remove(ctx context.Context, objectPaths ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.client.RemoveFile(s.bucket, objectPaths)
	return err
}
