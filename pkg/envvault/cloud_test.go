package envvault

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envvault/envvault/pkg/envvault/objectstorage"
)

func newStorageClient(t *testing.T) *objectstorage.Client {
	t.Helper()
	backend := s3mem.New()
	fs := gofakes3.New(backend)
	server := httptest.NewServer(fs.Server())
	t.Cleanup(server.Close)

	const bucket = "envvault-test"
	require.NoError(t, backend.CreateBucket(bucket))

	client, err := objectstorage.NewClient(&objectstorage.Config{
		BucketHost:   bucket + ".s3.us-east-1.amazonaws.com",
		BucketName:   bucket,
		BucketRegion: "us-east-1",
		AccessKey:    "AKIAEXAMPLE",
		SecretKey:    "secretexample",
		Platform:     objectstorage.PlatformAWSS3,
		Endpoint:     server.URL,
	})
	require.NoError(t, err)
	return client
}

func TestDotenvStorageRoundTrip(t *testing.T) {
	trackEnv(t, "APP_ENV", "TOKEN")
	client := newStorageClient(t)
	ctx := context.Background()

	d, err := NewDotEnv("APP_ENV=staging TOKEN=abc123")
	require.NoError(t, err)
	require.NoError(t, DumpDotenvToStorage(ctx, client, "envs/myapp/staging/.env", d))

	loaded, err := LoadDotenvFromStorage(ctx, client, "envs/myapp/staging/.env")
	require.NoError(t, err)
	assert.Equal(t, d.Values(), loaded.Values())
}

func TestLoadDotenvFromStorage_MissingObject(t *testing.T) {
	client := newStorageClient(t)
	_, err := LoadDotenvFromStorage(context.Background(), client, "envs/none/.env")

	var storageErr *objectstorage.StorageError
	assert.ErrorAs(t, err, &storageErr)
}
