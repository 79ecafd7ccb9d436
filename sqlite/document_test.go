package sqlite_test

import (
	"context"
	"testing"

	"github.com/evidmap/evidmap"
	"github.com/evidmap/evidmap/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_CreateDocument(t *testing.T) {
	t.Parallel()

	t.Run("creates document with generated ID, hash, and timestamp", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		source := createTestSource(t, db)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := &evidmap.Document{
			SourceID:    source.ID,
			Title:       "Post 1",
			ContentHTML: "<p>Hello</p>",
		}

		err := svc.CreateDocument(ctx, doc)
		require.NoError(t, err)

		assert.NotEmpty(t, doc.ID, "ID should be generated")
		assert.NotEmpty(t, doc.ContentHash, "ContentHash should be generated")
		assert.False(t, doc.CreatedAt.IsZero(), "CreatedAt should be set")
	})

	t.Run("returns error for invalid document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := &evidmap.Document{} // missing required fields

		err := svc.CreateDocument(ctx, doc)
		require.Error(t, err)
		assert.Equal(t, evidmap.EINVALID, evidmap.ErrorCode(err))
	})
}

func TestDocumentService_UpsertDocument(t *testing.T) {
	t.Parallel()

	t.Run("inserts when no document matches source and external ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		source := createTestSource(t, db)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := &evidmap.Document{
			SourceID:    source.ID,
			ExternalID:  "guid-1",
			Title:       "Post 1",
			ContentHTML: "<p>v1</p>",
		}

		created, err := svc.UpsertDocument(ctx, doc)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, doc.ID)
	})

	t.Run("skips update when content hash is unchanged", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		source := createTestSource(t, db)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := &evidmap.Document{
			SourceID:    source.ID,
			ExternalID:  "guid-1",
			Title:       "Post 1",
			ContentHTML: "<p>v1</p>",
		}
		_, err := svc.UpsertDocument(ctx, doc)
		require.NoError(t, err)

		again := &evidmap.Document{
			SourceID:    source.ID,
			ExternalID:  "guid-1",
			Title:       "Renamed",
			ContentHTML: "<p>v1</p>",
		}
		created, err := svc.UpsertDocument(ctx, again)
		require.NoError(t, err)
		assert.False(t, created)

		got, err := svc.FindDocumentByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "Post 1", got.Title, "unchanged content should not touch the row")
	})

	t.Run("updates when content changed", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		source := createTestSource(t, db)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := &evidmap.Document{
			SourceID:    source.ID,
			ExternalID:  "guid-1",
			Title:       "Post 1",
			ContentHTML: "<p>v1</p>",
		}
		_, err := svc.UpsertDocument(ctx, doc)
		require.NoError(t, err)

		updated := &evidmap.Document{
			SourceID:    source.ID,
			ExternalID:  "guid-1",
			Title:       "Post 1 (updated)",
			ContentHTML: "<p>v2</p>",
		}
		created, err := svc.UpsertDocument(ctx, updated)
		require.NoError(t, err)
		assert.False(t, created)

		got, err := svc.FindDocumentByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "<p>v2</p>", got.ContentHTML)
		assert.Equal(t, "Post 1 (updated)", got.Title)
	})
}

func TestDocumentService_FindDocuments(t *testing.T) {
	t.Parallel()

	t.Run("filters by source ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		source := createTestSource(t, db)
		other := createTestSource(t, db)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateDocument(ctx, &evidmap.Document{
			SourceID: source.ID, Title: "A",
		}))
		require.NoError(t, svc.CreateDocument(ctx, &evidmap.Document{
			SourceID: other.ID, Title: "B",
		}))

		docs, err := svc.FindDocuments(ctx, evidmap.DocumentFilter{SourceID: &source.ID})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "A", docs[0].Title)
	})

	t.Run("excludes archived documents by default", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		source := createTestSource(t, db)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := &evidmap.Document{SourceID: source.ID, Title: "A"}
		require.NoError(t, svc.CreateDocument(ctx, doc))
		require.NoError(t, svc.ArchiveDocument(ctx, doc.ID))

		docs, err := svc.FindDocuments(ctx, evidmap.DocumentFilter{})
		require.NoError(t, err)
		assert.Empty(t, docs)

		docs, err = svc.FindDocuments(ctx, evidmap.DocumentFilter{IncludeArchived: true})
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})
}

func TestDocumentService_FindDocumentByID(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for missing document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		_, err := svc.FindDocumentByID(context.Background(), "no-such-id")
		require.Error(t, err)
		assert.Equal(t, evidmap.ENOTFOUND, evidmap.ErrorCode(err))
	})
}

func TestDocumentService_UpdateDocument(t *testing.T) {
	t.Parallel()

	t.Run("updates only provided fields", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		source := createTestSource(t, db)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := &evidmap.Document{SourceID: source.ID, Title: "Old", Author: "Alice"}
		require.NoError(t, svc.CreateDocument(ctx, doc))

		newTitle := "New"
		got, err := svc.UpdateDocument(ctx, doc.ID, evidmap.DocumentUpdate{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, "New", got.Title)
		assert.Equal(t, "Alice", got.Author, "unset fields should not change")
	})

	t.Run("returns ENOTFOUND for missing document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		title := "x"
		_, err := svc.UpdateDocument(context.Background(), "no-such-id", evidmap.DocumentUpdate{Title: &title})
		require.Error(t, err)
		assert.Equal(t, evidmap.ENOTFOUND, evidmap.ErrorCode(err))
	})
}

func TestDocumentService_UpdateSegmentState(t *testing.T) {
	t.Parallel()

	t.Run("records the new version and status", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		source := createTestSource(t, db)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := &evidmap.Document{SourceID: source.ID, Title: "Post 1", ContentText: "body"}
		require.NoError(t, svc.CreateDocument(ctx, doc))
		assert.Equal(t, 0, doc.SegmentVersion)
		assert.Equal(t, evidmap.DocumentSegmentsNone, doc.SegmentStatus)

		err := svc.UpdateSegmentState(ctx, doc.ID, 1, evidmap.DocumentSegmentsGenerated)
		require.NoError(t, err)

		got, err := svc.FindDocumentByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.SegmentVersion)
		assert.Equal(t, evidmap.DocumentSegmentsGenerated, got.SegmentStatus)
	})

	t.Run("returns ENOTFOUND for missing document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		err := svc.UpdateSegmentState(context.Background(), "no-such-id", 1, evidmap.DocumentSegmentsGenerated)
		require.Error(t, err)
		assert.Equal(t, evidmap.ENOTFOUND, evidmap.ErrorCode(err))
	})
}
