package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stocksync/core/archive/mocks"
)

func writeReportFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sync_2026-01-01_08-00-00.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"run_id":"x"}`), 0o644))
	return path
}

func TestUpload_ExistingBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "sync-reports").Return(true, nil)
	client.On("PutObject", mock.Anything, "sync-reports", "reports/sync_2026-01-01_08-00-00.json",
		mock.Anything, int64(14), mock.Anything).Return(minio.UploadInfo{}, nil)

	a := NewArchiver(client, Config{Bucket: "sync-reports", Prefix: "reports"})
	objectName, err := a.Upload(context.Background(), writeReportFile(t))
	require.NoError(t, err)
	assert.Equal(t, "reports/sync_2026-01-01_08-00-00.json", objectName)
	client.AssertExpectations(t)
}

func TestUpload_CreatesBucketOnFirstUse(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "sync-reports").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "sync-reports", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "sync-reports", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	a := NewArchiver(client, Config{Bucket: "sync-reports", Prefix: "reports"})
	_, err := a.Upload(context.Background(), writeReportFile(t))
	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestUpload_MissingFile(t *testing.T) {
	client := new(mocks.Client)
	a := NewArchiver(client, Config{Bucket: "sync-reports"})

	_, err := a.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	client.AssertNotCalled(t, "PutObject")
}

func TestUpload_PutFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "sync-reports").Return(true, nil)
	client.On("PutObject", mock.Anything, "sync-reports", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, assert.AnError)

	a := NewArchiver(client, Config{Bucket: "sync-reports", Prefix: "reports"})
	_, err := a.Upload(context.Background(), writeReportFile(t))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload report")
}
