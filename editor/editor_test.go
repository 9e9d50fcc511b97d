package editor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"events-webapp/database"
	"events-webapp/model"
	"events-webapp/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStore struct {
	Store
	backend *database.Memory
	dir     string
}

func newTestStore(t *testing.T, now time.Time) testStore {
	t.Helper()
	backend := database.NewMemory()
	dir := t.TempDir()
	blobs, err := storage.NewLocal(dir, "http://localhost:3000")
	require.NoError(t, err)

	return testStore{
		Store: Store{
			Events:   database.NewCollection[model.Event](backend, database.EventsCollection),
			Uploader: storage.NewUploader(blobs),
			Now:      func() time.Time { return now },
		},
		backend: backend,
		dir:     dir,
	}
}

func filledEditor() *Editor {
	ed := New()
	ed.Form.Title = "Spring Expo"
	ed.Form.StartDate = "2025-04-10"
	ed.Form.EndDate = "2025-04-11"
	ed.Form.Venue = "Hall A"
	ed.Form.Price = 20
	return ed
}

func pngFile(content string) *storage.File {
	return &storage.File{
		Name:        "poster.png",
		ContentType: "image/png",
		Size:        int64(len(content)),
		Reader:      strings.NewReader(content),
	}
}

func TestValidate(t *testing.T) {
	zero := 0
	tests := []struct {
		description string
		change      func(f *Form)
		expectedErr bool
	}{
		{"complete form", func(f *Form) {}, false},
		{"missing title", func(f *Form) { f.Title = "  " }, true},
		{"missing start date", func(f *Form) { f.StartDate = "" }, true},
		{"missing end date", func(f *Form) { f.EndDate = "" }, true},
		{"malformed date", func(f *Form) { f.StartDate = "10/04/2025" }, true},
		{"end before start", func(f *Form) { f.EndDate = "2025-04-01" }, true},
		{"same day event", func(f *Form) { f.EndDate = f.StartDate }, false},
		{"zero capacity", func(f *Form) { f.Capacity = &zero }, true},
		{"negative price", func(f *Form) { f.Price = -1 }, true},
	}

	for _, test := range tests {
		ed := filledEditor()
		test.change(&ed.Form)
		err := ed.Validate()
		if test.expectedErr {
			assert.ErrorIsf(t, err, ErrValidation, test.description)
		} else {
			assert.NoErrorf(t, err, test.description)
		}
	}
}

func TestCreateThenEdit(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newTestStore(t, created)

	ed := filledEditor()
	result, err := ed.Save(ctx, store.Store, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ModeCreate, result.Mode)
	assert.Equal(t, ListURL, result.Redirect)
	assert.Equal(t, int64(1500), result.RedirectAfter)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, New(), ed, "a successful create clears the form")

	stored, err := store.Events.Get(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring Expo", stored.Title)
	assert.True(t, created.Equal(stored.CreatedAt.Time))
	assert.True(t, created.Equal(stored.UpdatedAt.Time))

	edited := created.Add(48 * time.Hour)
	store.Now = func() time.Time { return edited }

	ed, err = Open(ctx, store.Events, result.ID)
	require.NoError(t, err)
	assert.Equal(t, ModeEdit, ed.Mode)
	assert.Equal(t, "2025-04-10", ed.Form.StartDate)

	ed.Form.Title = "Spring Expo 2025"
	again, err := ed.Save(ctx, store.Store, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, result.ID, again.ID)
	assert.Equal(t, ModeEdit, again.Mode)
	assert.Equal(t, "Spring Expo 2025", ed.Form.Title, "edit mode keeps the form")

	stored, err = store.Events.Get(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring Expo 2025", stored.Title)
	assert.True(t, created.Equal(stored.CreatedAt.Time), "createdAt is never rewritten")
	assert.True(t, edited.Equal(stored.UpdatedAt.Time))
	assert.Equal(t, 1, store.backend.Calls("insert", database.EventsCollection))
}

func TestBoothOptionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Now())

	ed := filledEditor()
	ed.Form.BoothBookingEnabled = true
	standard := ed.AddBoothOption("Standard", 500)
	require.NoError(t, ed.AddBoothItem(standard, "Table"))
	premium := ed.AddBoothOption("Premium", 1200)
	require.NoError(t, ed.AddBoothItem(premium, "Table"))
	require.NoError(t, ed.AddBoothItem(premium, "Banner"))
	require.NoError(t, ed.AddBoothItem(premium, "   "))
	ed.AddBoothOption("   ", 99)

	assert.ErrorIs(t, ed.AddBoothItem("missing", "Chair"), ErrNoOption)

	result, err := ed.Save(ctx, store.Store, nil, nil)
	require.NoError(t, err)

	reopened, err := Open(ctx, store.Events, result.ID)
	require.NoError(t, err)
	assert.True(t, reopened.Form.BoothBookingEnabled)
	assert.Equal(t, []model.BoothOption{
		{ID: standard, Name: "Standard", Price: 500, Items: []string{"Table"}},
		{ID: premium, Name: "Premium", Price: 1200, Items: []string{"Table", "Banner"}},
	}, reopened.Form.BoothOptions)

	require.NoError(t, reopened.RemoveBoothItem(premium, 0))
	require.NoError(t, reopened.RemoveBoothOption(standard))
	assert.Equal(t, []model.BoothOption{
		{ID: premium, Name: "Premium", Price: 1200, Items: []string{"Banner"}},
	}, reopened.Form.BoothOptions)
	assert.ErrorIs(t, reopened.RemoveBoothOption(standard), ErrNoOption)
}

func TestTags(t *testing.T) {
	ed := New()
	ed.AddTag(WhatToExpect, " Keynotes ")
	ed.AddTag(WhatToExpect, "")
	ed.AddTag(WhatToExpect, "Workshops")
	ed.AddTag(WhoShouldAttend, "Developers")
	ed.RemoveTag(WhatToExpect, 0)
	ed.RemoveTag(WhoShouldAttend, 5)

	assert.Equal(t, []string{"Workshops"}, ed.Form.WhatToExpect)
	assert.Equal(t, []string{"Developers"}, ed.Form.WhoShouldAttend)
}

func TestSaveUploadsImageBeforeWriting(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Now())

	var progress []float64
	ed := filledEditor()
	result, err := ed.Save(ctx, store.Store, pngFile("png-bytes"), func(p float64) {
		progress = append(progress, p)
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, progress[len(progress)-1])

	stored, err := store.Events.Get(ctx, result.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stored.ImageURL, "http://localhost:3000/uploads/events/"))

	objectPath := strings.TrimPrefix(stored.ImageURL, "http://localhost:3000/uploads/")
	content, err := os.ReadFile(filepath.Join(store.dir, filepath.FromSlash(objectPath)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))
}

func TestSaveRejectsNonImageBeforeUploading(t *testing.T) {
	store := newTestStore(t, time.Now())

	ed := filledEditor()
	file := pngFile("%PDF")
	file.ContentType = "application/pdf"

	_, err := ed.Save(context.Background(), store.Store, file, nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, store.backend.Calls("insert", database.EventsCollection))

	entries, _ := os.ReadDir(filepath.Join(store.dir, ImageFolder))
	assert.Empty(t, entries)
}

func TestFailedWriteKeepsFormAndRemovesUpload(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, time.Now())
	store.backend.Fail("insert", database.EventsCollection, errors.New("quota exceeded"))

	ed := filledEditor()
	ed.Form.ImageURL = "https://cdn.example.com/old.png"
	_, err := ed.Save(ctx, store.Store, pngFile("png-bytes"), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)

	assert.Equal(t, ModeCreate, ed.Mode)
	assert.Equal(t, "Spring Expo", ed.Form.Title, "the form is kept for another attempt")
	assert.Equal(t, "https://cdn.example.com/old.png", ed.Form.ImageURL)

	entries, err := os.ReadDir(filepath.Join(store.dir, ImageFolder))
	require.NoError(t, err)
	assert.Empty(t, entries, "the orphaned upload is removed")

	store.backend.Fail("insert", database.EventsCollection, nil)
	_, err = ed.Save(ctx, store.Store, nil, nil)
	assert.NoError(t, err)
}
