package minio

import (
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/minio/minio-go/v7/pkg/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
	"github.com/compsred/comps-engine/pkg/errors"
)

type fakeMinIOAPI struct {
	listBucketsFunc        func(ctx context.Context) ([]minio.BucketInfo, error)
	bucketExistsFunc       func(ctx context.Context, bucket string) (bool, error)
	makeBucketFunc         func(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	setBucketLifecycleFunc func(ctx context.Context, bucket string, cfg *lifecycle.Configuration) error
	listObjectsFunc        func(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	presignedGetFunc       func(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error)
	presignedPutFunc       func(ctx context.Context, bucket, object string, expiry time.Duration) (*url.URL, error)
	putObjectFunc          func(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	getObjectFunc          func(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error)
	removeObjectFunc       func(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
	removeObjectsFunc      func(ctx context.Context, bucket string, ch <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError
	statObjectFunc         func(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	putTaggingFunc         func(ctx context.Context, bucket, object string, ot *tags.Tags, opts minio.PutObjectTaggingOptions) error
	getTaggingFunc         func(ctx context.Context, bucket, object string, opts minio.GetObjectTaggingOptions) (*tags.Tags, error)
}

func (f *fakeMinIOAPI) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	if f.listBucketsFunc != nil {
		return f.listBucketsFunc(ctx)
	}
	return nil, nil
}

func (f *fakeMinIOAPI) BucketExists(ctx context.Context, bucket string) (bool, error) {
	if f.bucketExistsFunc != nil {
		return f.bucketExistsFunc(ctx, bucket)
	}
	return true, nil
}

func (f *fakeMinIOAPI) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	if f.makeBucketFunc != nil {
		return f.makeBucketFunc(ctx, bucket, opts)
	}
	return nil
}

func (f *fakeMinIOAPI) SetBucketLifecycle(ctx context.Context, bucket string, cfg *lifecycle.Configuration) error {
	if f.setBucketLifecycleFunc != nil {
		return f.setBucketLifecycleFunc(ctx, bucket, cfg)
	}
	return nil
}

func (f *fakeMinIOAPI) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	if f.listObjectsFunc != nil {
		return f.listObjectsFunc(ctx, bucket, opts)
	}
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func (f *fakeMinIOAPI) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error) {
	if f.presignedGetFunc != nil {
		return f.presignedGetFunc(ctx, bucket, object, expiry, params)
	}
	return url.Parse("http://minio.local/" + bucket + "/" + object)
}

func (f *fakeMinIOAPI) PresignedPutObject(ctx context.Context, bucket, object string, expiry time.Duration) (*url.URL, error) {
	if f.presignedPutFunc != nil {
		return f.presignedPutFunc(ctx, bucket, object, expiry)
	}
	return url.Parse("http://minio.local/" + bucket + "/" + object)
}

func (f *fakeMinIOAPI) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putObjectFunc != nil {
		return f.putObjectFunc(ctx, bucket, object, reader, size, opts)
	}
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: size}, nil
}

func (f *fakeMinIOAPI) GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error) {
	if f.getObjectFunc != nil {
		return f.getObjectFunc(ctx, bucket, object, opts)
	}
	return nil, nil
}

func (f *fakeMinIOAPI) RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error {
	if f.removeObjectFunc != nil {
		return f.removeObjectFunc(ctx, bucket, object, opts)
	}
	return nil
}

func (f *fakeMinIOAPI) RemoveObjects(ctx context.Context, bucket string, ch <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError {
	if f.removeObjectsFunc != nil {
		return f.removeObjectsFunc(ctx, bucket, ch, opts)
	}
	out := make(chan minio.RemoveObjectError)
	go func() {
		defer close(out)
		for range ch {
		}
	}()
	return out
}

func (f *fakeMinIOAPI) StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if f.statObjectFunc != nil {
		return f.statObjectFunc(ctx, bucket, object, opts)
	}
	return minio.ObjectInfo{Key: object}, nil
}

func (f *fakeMinIOAPI) PutObjectTagging(ctx context.Context, bucket, object string, ot *tags.Tags, opts minio.PutObjectTaggingOptions) error {
	if f.putTaggingFunc != nil {
		return f.putTaggingFunc(ctx, bucket, object, ot, opts)
	}
	return nil
}

func (f *fakeMinIOAPI) GetObjectTagging(ctx context.Context, bucket, object string, opts minio.GetObjectTaggingOptions) (*tags.Tags, error) {
	if f.getTaggingFunc != nil {
		return f.getTaggingFunc(ctx, bucket, object, opts)
	}
	return tags.NewTags(nil, false)
}

func newTestClient(api MinIOAPI) *MinIOClient {
	cfg := &MinIOConfig{}
	applyDefaults(cfg)
	return &MinIOClient{
		client: api,
		config: cfg,
		logger: logging.NewNopLogger(),
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &MinIOConfig{}
	applyDefaults(cfg)

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, int64(16*1024*1024), cfg.PartSize)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 1*time.Hour, cfg.PresignExpiry)
	assert.Equal(t, 7, cfg.TempFileExpiry)
	assert.Equal(t, 30, cfg.ExportExpiry)
	assert.Equal(t, "comps-reports", cfg.DefaultBucket)
	assert.Equal(t, "comps-reports", cfg.Buckets.Reports)
	assert.Equal(t, "comps-exports", cfg.Buckets.Exports)
	assert.Equal(t, "comps-temp", cfg.Buckets.Temp)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &MinIOConfig{
		Region:  "eu-west-1",
		Buckets: BucketConfig{Exports: "deck-exports"},
	}
	applyDefaults(cfg)

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "deck-exports", cfg.Buckets.Exports)
	assert.Equal(t, "comps-reports", cfg.Buckets.Reports)
}

func TestGetBucketName(t *testing.T) {
	client := newTestClient(&fakeMinIOAPI{})

	assert.Equal(t, "comps-reports", client.GetBucketName("reports"))
	assert.Equal(t, "comps-exports", client.GetBucketName("exports"))
	assert.Equal(t, "comps-temp", client.GetBucketName("temp"))
	assert.Equal(t, "comps-reports", client.GetBucketName("unknown"))
}

func TestEnsureBuckets_CreatesMissing(t *testing.T) {
	existing := map[string]bool{
		"comps-reports": true,
		"comps-exports": false,
		"comps-temp":    false,
	}
	var created []string
	api := &fakeMinIOAPI{
		bucketExistsFunc: func(_ context.Context, bucket string) (bool, error) {
			return existing[bucket], nil
		},
		makeBucketFunc: func(_ context.Context, bucket string, opts minio.MakeBucketOptions) error {
			assert.Equal(t, "us-east-1", opts.Region)
			created = append(created, bucket)
			return nil
		},
	}
	client := newTestClient(api)

	err := client.EnsureBuckets(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"comps-exports", "comps-temp"}, created)
}

func TestEnsureBuckets_ExistsCheckError(t *testing.T) {
	api := &fakeMinIOAPI{
		bucketExistsFunc: func(_ context.Context, _ string) (bool, error) {
			return false, errors.New(errors.ErrCodeServiceUnavailable, "down")
		},
	}
	client := newTestClient(api)

	err := client.EnsureBuckets(context.Background())
	require.Error(t, err)
	// Wrap keeps the cause's classification when adding ErrCodeInternal
	// context, so the transport failure stays visible to callers.
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
	assert.Contains(t, err.Error(), "failed to check bucket existence")
}

func TestSetupLifecycleRules(t *testing.T) {
	configs := make(map[string]*lifecycle.Configuration)
	api := &fakeMinIOAPI{
		setBucketLifecycleFunc: func(_ context.Context, bucket string, cfg *lifecycle.Configuration) error {
			configs[bucket] = cfg
			return nil
		},
	}
	client := newTestClient(api)

	err := client.SetupLifecycleRules(context.Background())
	require.NoError(t, err)

	temp := configs["comps-temp"]
	require.NotNil(t, temp)
	require.Len(t, temp.Rules, 1)
	assert.Equal(t, "temp-cleanup", temp.Rules[0].ID)
	assert.Equal(t, lifecycle.ExpirationDays(7), temp.Rules[0].Expiration.Days)

	exports := configs["comps-exports"]
	require.NotNil(t, exports)
	require.Len(t, exports.Rules, 1)
	assert.Equal(t, "exports-cleanup", exports.Rules[0].ID)
	assert.Equal(t, lifecycle.ExpirationDays(30), exports.Rules[0].Expiration.Days)
}

func TestSetupLifecycleRules_BackendRejectionTolerated(t *testing.T) {
	api := &fakeMinIOAPI{
		setBucketLifecycleFunc: func(_ context.Context, _ string, _ *lifecycle.Configuration) error {
			return errors.New(errors.ErrCodeNotImplemented, "lifecycle not supported")
		},
	}
	client := newTestClient(api)

	assert.NoError(t, client.SetupLifecycleRules(context.Background()))
}

func TestHealthCheck_Healthy(t *testing.T) {
	client := newTestClient(&fakeMinIOAPI{})

	status, err := client.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Empty(t, status.Error)
	assert.True(t, status.BucketStatuses["comps-reports"])
	assert.True(t, status.BucketStatuses["comps-exports"])
	assert.True(t, status.BucketStatuses["comps-temp"])
}

func TestHealthCheck_MissingBucket(t *testing.T) {
	api := &fakeMinIOAPI{
		bucketExistsFunc: func(_ context.Context, bucket string) (bool, error) {
			return bucket != "comps-exports", nil
		},
	}
	client := newTestClient(api)

	status, err := client.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.False(t, status.BucketStatuses["comps-exports"])
	assert.Contains(t, status.Error, "comps-exports")
}

func TestHealthCheck_ConnectionError(t *testing.T) {
	api := &fakeMinIOAPI{
		listBucketsFunc: func(_ context.Context) ([]minio.BucketInfo, error) {
			return nil, errors.New(errors.ErrCodeServiceUnavailable, "connection refused")
		},
	}
	client := newTestClient(api)

	status, err := client.HealthCheck(context.Background())
	require.Error(t, err)
	assert.False(t, status.Healthy)
	assert.Contains(t, status.Error, "connection refused")
}

func TestGetBucketStats(t *testing.T) {
	now := time.Now()
	api := &fakeMinIOAPI{
		listObjectsFunc: func(_ context.Context, _ string, _ minio.ListObjectsOptions) <-chan minio.ObjectInfo {
			ch := make(chan minio.ObjectInfo, 3)
			ch <- minio.ObjectInfo{Key: "deck-1.csv", Size: 1024, LastModified: now.Add(-time.Hour)}
			ch <- minio.ObjectInfo{Key: "deck-2.csv", Size: 2048, LastModified: now}
			ch <- minio.ObjectInfo{Key: "deck-3.json", Size: 512, LastModified: now.Add(-2 * time.Hour)}
			close(ch)
			return ch
		},
	}
	client := newTestClient(api)

	stats, err := client.GetBucketStats(context.Background(), "comps-exports")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.ObjectCount)
	assert.Equal(t, int64(3584), stats.TotalSize)
	assert.Equal(t, now, stats.LastModified)
}

func TestGetBucketStats_BucketNotFound(t *testing.T) {
	api := &fakeMinIOAPI{
		bucketExistsFunc: func(_ context.Context, _ string) (bool, error) {
			return false, nil
		},
	}
	client := newTestClient(api)

	_, err := client.GetBucketStats(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrBucketNotFound)
}

func TestGeneratePresignedGetURL_DefaultExpiry(t *testing.T) {
	var gotExpiry time.Duration
	api := &fakeMinIOAPI{
		presignedGetFunc: func(_ context.Context, bucket, object string, expiry time.Duration, _ url.Values) (*url.URL, error) {
			gotExpiry = expiry
			return url.Parse("http://minio.local/" + bucket + "/" + object + "?sig=abc")
		},
	}
	client := newTestClient(api)

	u, err := client.GeneratePresignedGetURL(context.Background(), "comps-exports", "deck-1.csv", 0)
	require.NoError(t, err)
	assert.Equal(t, 1*time.Hour, gotExpiry)
	assert.Contains(t, u, "deck-1.csv")
}

func TestGeneratePresignedPutURL_ExplicitExpiry(t *testing.T) {
	var gotExpiry time.Duration
	api := &fakeMinIOAPI{
		presignedPutFunc: func(_ context.Context, bucket, object string, expiry time.Duration) (*url.URL, error) {
			gotExpiry = expiry
			return url.Parse("http://minio.local/" + bucket + "/" + object)
		},
	}
	client := newTestClient(api)

	_, err := client.GeneratePresignedPutURL(context.Background(), "comps-reports", "report.pdf", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, gotExpiry)
}
//Personal.AI order the ending
