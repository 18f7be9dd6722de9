package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/resumematch/resumematch/internal/document"
)

func rec(id, name string, at time.Time) *document.Record {
	return &document.Record{ID: id, Kind: document.KindResume, FileName: name, AllContent: "content " + id, UploadedAt: at}
}

func TestMemoryRepoInsertAndGet(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Insert(ctx, rec("a", "cv.pdf", base)))
	got, err := r.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "content a", got.AllContent)

	_, err = r.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.GetByFilename(ctx, "missing.pdf")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoDuplicateFilenames(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Insert(ctx, rec("1", "cv.pdf", base)))
	require.NoError(t, r.Insert(ctx, rec("2", "cv.pdf", base.Add(time.Hour))))
	require.NoError(t, r.Insert(ctx, rec("3", "other.pdf", base.Add(2*time.Hour))))

	latest, err := r.GetByFilename(ctx, "cv.pdf")
	require.NoError(t, err)
	require.Equal(t, "2", latest.ID)

	list, err := r.ListByFilename(ctx, "cv.pdf")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "1", list[0].ID)
	require.Equal(t, "2", list[1].ID)

	// both records stay independently retrievable
	first, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "content 1", first.AllContent)
}

func TestMemoryRepoSameTimestampTieBreak(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, rec("b", "cv.pdf", at)))
	require.NoError(t, r.Insert(ctx, rec("a", "cv.pdf", at)))

	got, err := r.GetByFilename(ctx, "cv.pdf")
	require.NoError(t, err)
	require.Equal(t, "b", got.ID)
}

func TestMemoryRepoRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	require.NoError(t, r.Insert(ctx, rec("a", "cv.pdf", time.Now())))
	require.Error(t, r.Insert(ctx, rec("a", "cv2.pdf", time.Now())))
	require.Error(t, r.Insert(ctx, rec("", "cv3.pdf", time.Now())))
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	in := rec("a", "cv.pdf", time.Now())
	require.NoError(t, r.Insert(ctx, in))
	in.AllContent = "mutated"

	got, err := r.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "content a", got.AllContent)
}
