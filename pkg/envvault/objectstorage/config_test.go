package objectstorage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearAWSEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		envAccessKey, envSecretKey, envSessionToken,
		"AWS_S3_REGION", "AWS_REGION", "AWS_DEFAULT_REGION",
	} {
		t.Setenv(name, "")
	}
}

func TestNewConfig_ExplicitValues(t *testing.T) {
	clearAWSEnv(t)
	cfg, err := NewConfig(
		WithBucketHost("mybucket.s3.us-west-2.amazonaws.com"),
		WithBucketRegion("us-west-2"),
		WithCredentials("AKIAEXAMPLE", "secretexample"),
	)
	require.NoError(t, err)
	assert.Equal(t, "mybucket", cfg.BucketName)
	assert.Equal(t, "us-west-2", cfg.BucketRegion)
	assert.Equal(t, PlatformAWSS3, cfg.Platform)
}

func TestNewConfig_CredentialsFromEnv(t *testing.T) {
	clearAWSEnv(t)
	t.Setenv(envAccessKey, "AKIAFROMENV")
	t.Setenv(envSecretKey, "secretfromenv")
	t.Setenv(envSessionToken, "tokenfromenv")
	t.Setenv("AWS_REGION", "eu-central-1")

	cfg, err := NewConfig(WithBucketHost("mybucket.s3.eu-central-1.amazonaws.com"))
	require.NoError(t, err)
	assert.Equal(t, "AKIAFROMENV", cfg.AccessKey)
	assert.Equal(t, "secretfromenv", cfg.SecretKey)
	assert.Equal(t, "tokenfromenv", cfg.SessionToken)
	assert.Equal(t, "eu-central-1", cfg.BucketRegion)
}

func TestNewConfig_ExplicitBeatsEnv(t *testing.T) {
	clearAWSEnv(t)
	t.Setenv(envAccessKey, "AKIAFROMENV")
	t.Setenv(envSecretKey, "secretfromenv")
	t.Setenv("AWS_REGION", "eu-central-1")

	cfg, err := NewConfig(
		WithBucketHost("mybucket.s3.us-west-2.amazonaws.com"),
		WithBucketRegion("us-west-2"),
		WithCredentials("AKIAEXPLICIT", "secretexplicit"),
	)
	require.NoError(t, err)
	assert.Equal(t, "AKIAEXPLICIT", cfg.AccessKey)
	assert.Equal(t, "us-west-2", cfg.BucketRegion)
}

func TestNewConfig_RegionPrecedence(t *testing.T) {
	clearAWSEnv(t)
	t.Setenv(envAccessKey, "AKIAEXAMPLE")
	t.Setenv(envSecretKey, "secretexample")
	t.Setenv("AWS_S3_REGION", "us-west-2")
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("AWS_DEFAULT_REGION", "ap-southeast-1")

	cfg, err := NewConfig(WithBucketHost("mybucket.s3.us-west-2.amazonaws.com"))
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.BucketRegion)
}

func TestNewConfig_MissingCredentials(t *testing.T) {
	clearAWSEnv(t)
	_, err := NewConfig(WithBucketHost("mybucket.s3.us-west-2.amazonaws.com"))
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestNewConfig_MissingRegion(t *testing.T) {
	clearAWSEnv(t)
	_, err := NewConfig(
		WithBucketName("mybucket"),
		WithCredentials("AKIAEXAMPLE", "secretexample"),
	)
	assert.ErrorIs(t, err, ErrMissingRegion)
}

func TestNewConfig_BareBucketNameBuildsAWSHost(t *testing.T) {
	clearAWSEnv(t)
	cfg, err := NewConfig(
		WithBucketName("mybucket"),
		WithBucketRegion("us-west-2"),
		WithCredentials("AKIAEXAMPLE", "secretexample"),
	)
	require.NoError(t, err)
	assert.Equal(t, "mybucket.s3.us-west-2.amazonaws.com", cfg.BucketHost)
	assert.Equal(t, PlatformAWSS3, cfg.Platform)
}

func TestNewConfig_PlatformInference(t *testing.T) {
	clearAWSEnv(t)
	tests := []struct {
		name       string
		host       string
		region     string
		platform   Platform
		bucketName string
	}{
		{
			name:       "AWS",
			host:       "mybucket.s3.us-west-2.amazonaws.com",
			region:     "us-west-2",
			platform:   PlatformAWSS3,
			bucketName: "mybucket",
		},
		{
			name:       "BackblazeB2",
			host:       "mybucket.s3.us-west-004.backblazeb2.com",
			region:     "us-west-004",
			platform:   PlatformBackblazeB2,
			bucketName: "mybucket",
		},
		{
			name:       "CloudflareR2",
			host:       "mybucket.accountid123.r2.cloudflarestorage.com",
			region:     "auto",
			platform:   PlatformCloudflareR2,
			bucketName: "mybucket",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(
				WithBucketHost(tc.host),
				WithBucketRegion(tc.region),
				WithCredentials("AKIAEXAMPLE", "secretexample"),
			)
			require.NoError(t, err)
			assert.Equal(t, tc.platform, cfg.Platform)
			assert.Equal(t, tc.bucketName, cfg.BucketName)
		})
	}
}

func TestNewConfig_R2RegionAliasing(t *testing.T) {
	clearAWSEnv(t)
	for _, region := range []string{"", "us-east-1", "auto"} {
		cfg, err := NewConfig(
			WithBucketHost("mybucket.accountid123.r2.cloudflarestorage.com"),
			WithBucketRegion(region),
			WithCredentials("AKIAEXAMPLE", "secretexample"),
		)
		require.NoError(t, err, "region=%q", region)
		assert.Equal(t, "auto", cfg.BucketRegion, "region=%q", region)
	}
}

func TestNewConfig_UnrecognizedHost(t *testing.T) {
	clearAWSEnv(t)
	_, err := NewConfig(
		WithBucketHost("mybucket.storage.example.com"),
		WithBucketRegion("us-west-2"),
		WithCredentials("AKIAEXAMPLE", "secretexample"),
	)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "bucket_host", cfgErr.Field)
}

func TestNewConfig_HostBucketNameMismatch(t *testing.T) {
	clearAWSEnv(t)
	_, err := NewConfig(
		WithBucketHost("otherbucket.s3.us-west-2.amazonaws.com"),
		WithBucketName("mybucket"),
		WithBucketRegion("us-west-2"),
		WithCredentials("AKIAEXAMPLE", "secretexample"),
	)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "bucket_host", cfgErr.Field)
}

func TestNewConfig_HostRegionMismatch(t *testing.T) {
	clearAWSEnv(t)
	_, err := NewConfig(
		WithBucketHost("mybucket.s3.us-west-2.amazonaws.com"),
		WithBucketRegion("eu-central-1"),
		WithCredentials("AKIAEXAMPLE", "secretexample"),
	)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "bucket_region", cfgErr.Field)
}

func TestNewConfig_NoBucket(t *testing.T) {
	clearAWSEnv(t)
	_, err := NewConfig(WithCredentials("AKIAEXAMPLE", "secretexample"))
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "bucket", cfgErr.Field)
}

func TestInferPlatform(t *testing.T) {
	tests := []struct {
		host     string
		platform Platform
		ok       bool
	}{
		{"mybucket.s3.us-west-2.amazonaws.com", PlatformAWSS3, true},
		{"mybucket.s3.eu-central-003.backblazeb2.com", PlatformBackblazeB2, true},
		{"mybucket.accountid.r2.cloudflarestorage.com", PlatformCloudflareR2, true},
		{"mybucket.example.org", PlatformAWSS3, false},
	}
	for _, tc := range tests {
		platform, ok := inferPlatform(tc.host)
		assert.Equal(t, tc.ok, ok, tc.host)
		if tc.ok {
			assert.Equal(t, tc.platform, platform, tc.host)
		}
	}
}
