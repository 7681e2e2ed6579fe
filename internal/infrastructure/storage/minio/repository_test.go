package minio

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	miniotags "github.com/minio/minio-go/v7/pkg/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
)

func newTestRepository(api MinIOAPI) ObjectStorageRepository {
	return NewObjectStorageRepository(newTestClient(api), logging.NewNopLogger())
}

func noSuchKeyErr() error {
	return minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
}

func TestRepositoryUpload(t *testing.T) {
	var gotOpts minio.PutObjectOptions
	var gotSize int64
	api := &fakeMinIOAPI{
		putObjectFunc: func(_ context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			gotOpts = opts
			gotSize = size
			return minio.UploadInfo{Bucket: bucket, Key: object, ETag: "etag-1", Size: size}, nil
		},
	}
	repo := newTestRepository(api)

	payload := []byte("Type,Address,Price\nSUBJECT,123 Main St,450000\n")
	res, err := repo.Upload(context.Background(), &UploadRequest{
		Bucket:    "comps-exports",
		ObjectKey: "decks/d1/export.csv",
		Data:      payload,
		Metadata:  map[string]string{"deck-id": "d1"},
		Tags:      map[string]string{"format": "csv"},
	})
	require.NoError(t, err)
	assert.Equal(t, "comps-exports", res.Bucket)
	assert.Equal(t, "decks/d1/export.csv", res.ObjectKey)
	assert.Equal(t, "etag-1", res.ETag)
	assert.Equal(t, int64(len(payload)), gotSize)
	assert.Equal(t, map[string]string{"deck-id": "d1"}, gotOpts.UserMetadata)
	assert.Equal(t, map[string]string{"format": "csv"}, gotOpts.UserTags)
}

func TestRepositoryUpload_DetectsContentType(t *testing.T) {
	var gotContentType string
	api := &fakeMinIOAPI{
		putObjectFunc: func(_ context.Context, bucket, object string, _ io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			gotContentType = opts.ContentType
			return minio.UploadInfo{Bucket: bucket, Key: object, Size: size}, nil
		},
	}
	repo := newTestRepository(api)

	_, err := repo.Upload(context.Background(), &UploadRequest{
		Bucket:    "comps-reports",
		ObjectKey: "report.pdf",
		Data:      []byte("%PDF-1.7 report body"),
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", gotContentType)
}

func TestRepositoryUpload_Validation(t *testing.T) {
	repo := newTestRepository(&fakeMinIOAPI{})

	_, err := repo.Upload(context.Background(), &UploadRequest{ObjectKey: "k"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = repo.Upload(context.Background(), &UploadRequest{Bucket: "b"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRepositoryUploadStream_UnknownSizeUsesPartSize(t *testing.T) {
	var gotOpts minio.PutObjectOptions
	var gotSize int64
	api := &fakeMinIOAPI{
		putObjectFunc: func(_ context.Context, bucket, object string, _ io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			gotOpts = opts
			gotSize = size
			return minio.UploadInfo{Bucket: bucket, Key: object}, nil
		},
	}
	repo := newTestRepository(api)

	_, err := repo.UploadStream(context.Background(), &StreamUploadRequest{
		Bucket:      "comps-temp",
		ObjectKey:   "scratch/blob",
		Reader:      strings.NewReader("streamed"),
		Size:        -1,
		ContentType: "application/octet-stream",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-1), gotSize)
	assert.Equal(t, uint64(16*1024*1024), gotOpts.PartSize)
}

func TestRepositoryExists(t *testing.T) {
	api := &fakeMinIOAPI{
		statObjectFunc: func(_ context.Context, _, object string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
			if object == "present" {
				return minio.ObjectInfo{Key: object, Size: 10}, nil
			}
			return minio.ObjectInfo{}, noSuchKeyErr()
		},
	}
	repo := newTestRepository(api)

	exists, err := repo.Exists(context.Background(), "comps-exports", "present")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(context.Background(), "comps-exports", "absent")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositoryGetMetadata(t *testing.T) {
	modified := time.Now().Add(-time.Hour)
	api := &fakeMinIOAPI{
		statObjectFunc: func(_ context.Context, _, object string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{
				Key:          object,
				Size:         2048,
				ContentType:  "text/csv",
				ETag:         "etag-9",
				LastModified: modified,
				UserMetadata: map[string]string{"deck-id": "d1"},
			}, nil
		},
	}
	repo := newTestRepository(api)

	meta, err := repo.GetMetadata(context.Background(), "comps-exports", "decks/d1/export.csv")
	require.NoError(t, err)
	assert.Equal(t, "comps-exports", meta.Bucket)
	assert.Equal(t, "decks/d1/export.csv", meta.ObjectKey)
	assert.Equal(t, int64(2048), meta.Size)
	assert.Equal(t, "text/csv", meta.ContentType)
	assert.Equal(t, modified, meta.LastModified)
	assert.Equal(t, "d1", meta.Metadata["deck-id"])
}

func TestRepositoryGetMetadata_NotFound(t *testing.T) {
	api := &fakeMinIOAPI{
		statObjectFunc: func(_ context.Context, _, _ string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{}, noSuchKeyErr()
		},
	}
	repo := newTestRepository(api)

	_, err := repo.GetMetadata(context.Background(), "comps-exports", "gone")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestRepositoryDelete(t *testing.T) {
	var deleted string
	api := &fakeMinIOAPI{
		removeObjectFunc: func(_ context.Context, _, object string, _ minio.RemoveObjectOptions) error {
			deleted = object
			return nil
		},
	}
	repo := newTestRepository(api)

	require.NoError(t, repo.Delete(context.Background(), "comps-temp", "scratch/blob"))
	assert.Equal(t, "scratch/blob", deleted)
}

func TestRepositoryDeleteBatch_CollectsFailures(t *testing.T) {
	api := &fakeMinIOAPI{
		removeObjectsFunc: func(_ context.Context, _ string, ch <-chan minio.ObjectInfo, _ minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError {
			out := make(chan minio.RemoveObjectError)
			go func() {
				defer close(out)
				for obj := range ch {
					if obj.Key == "locked" {
						out <- minio.RemoveObjectError{ObjectName: obj.Key, Err: noSuchKeyErr()}
					}
				}
			}()
			return out
		},
	}
	repo := newTestRepository(api)

	errs, err := repo.DeleteBatch(context.Background(), "comps-exports", []string{"a", "locked", "b"})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "locked", errs[0].ObjectKey)
	assert.Error(t, errs[0].Error)
}

func TestRepositoryList_TruncatesAtMaxKeys(t *testing.T) {
	api := &fakeMinIOAPI{
		listObjectsFunc: func(_ context.Context, _ string, _ minio.ListObjectsOptions) <-chan minio.ObjectInfo {
			ch := make(chan minio.ObjectInfo, 5)
			for _, key := range []string{"a", "b", "c", "d", "e"} {
				ch <- minio.ObjectInfo{Key: key, Size: 1}
			}
			close(ch)
			return ch
		},
	}
	repo := newTestRepository(api)

	res, err := repo.List(context.Background(), "comps-exports", "decks/", &ListOptions{MaxKeys: 3, Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalCount)
	require.Len(t, res.Objects, 3)
	assert.Equal(t, "a", res.Objects[0].ObjectKey)
	assert.Equal(t, "c", res.Objects[2].ObjectKey)
}

func TestRepositoryList_PropagatesObjectError(t *testing.T) {
	api := &fakeMinIOAPI{
		listObjectsFunc: func(_ context.Context, _ string, _ minio.ListObjectsOptions) <-chan minio.ObjectInfo {
			ch := make(chan minio.ObjectInfo, 1)
			ch <- minio.ObjectInfo{Err: noSuchKeyErr()}
			close(ch)
			return ch
		},
	}
	repo := newTestRepository(api)

	_, err := repo.List(context.Background(), "comps-exports", "", nil)
	assert.Error(t, err)
}

func TestRepositorySetTags(t *testing.T) {
	var got map[string]string
	api := &fakeMinIOAPI{
		putTaggingFunc: func(_ context.Context, _, _ string, ot *miniotags.Tags, _ minio.PutObjectTaggingOptions) error {
			got = ot.ToMap()
			return nil
		},
	}
	repo := newTestRepository(api)

	err := repo.SetTags(context.Background(), "comps-exports", "decks/d1/export.csv", map[string]string{"format": "csv", "deck": "d1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"format": "csv", "deck": "d1"}, got)
}

func TestRepositoryGetTags(t *testing.T) {
	api := &fakeMinIOAPI{
		getTaggingFunc: func(_ context.Context, _, _ string, _ minio.GetObjectTaggingOptions) (*miniotags.Tags, error) {
			return miniotags.NewTags(map[string]string{"format": "json"}, false)
		},
	}
	repo := newTestRepository(api)

	got, err := repo.GetTags(context.Background(), "comps-exports", "decks/d1/export.json")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"format": "json"}, got)
}

func TestRepositoryPresignedURLs(t *testing.T) {
	repo := newTestRepository(&fakeMinIOAPI{})

	dl, err := repo.GetPresignedDownloadURL(context.Background(), "comps-exports", "decks/d1/export.csv", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, dl, "comps-exports")

	ul, err := repo.GetPresignedUploadURL(context.Background(), "comps-temp", "scratch/blob", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, ul, "comps-temp")
}
//Personal.AI order the ending
