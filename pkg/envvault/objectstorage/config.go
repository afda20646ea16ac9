package objectstorage

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Environment variables consulted when explicit values are not provided.
const (
	envAccessKey    = "AWS_ACCESS_KEY_ID"
	envSecretKey    = "AWS_SECRET_ACCESS_KEY"
	envSessionToken = "AWS_SESSION_TOKEN"
)

// regionEnvVars is the fixed precedence order for region resolution.
var regionEnvVars = []string{"AWS_S3_REGION", "AWS_REGION", "AWS_DEFAULT_REGION"}

// Config is the immutable record a Client signs requests with. Build it
// with NewConfig; the zero value is not usable. Credentials are never
// refreshed after construction, so rotating temporary session tokens is the
// caller's responsibility.
type Config struct {
	BucketHost   string // virtual-hosted-style FQDN, e.g. mybucket.s3.us-east-1.amazonaws.com
	BucketName   string
	BucketRegion string
	AccessKey    string
	SecretKey    string
	SessionToken string
	Platform     Platform

	// Endpoint optionally redirects requests to an S3-compatible server
	// such as MinIO or an in-process test double, switching the client to
	// path-style addressing. It changes where requests are sent, never how
	// they are signed.
	Endpoint string
}

// ConfigOption applies a setting to a Config under construction.
type ConfigOption func(*Config)

// WithBucketHost sets the virtual-hosted-style bucket host.
func WithBucketHost(host string) ConfigOption {
	return func(c *Config) { c.BucketHost = host }
}

// WithBucketName sets a bare bucket name. Without a bucket host this is an
// AWS-only convenience: the host is derived from the name and region.
func WithBucketName(name string) ConfigOption {
	return func(c *Config) { c.BucketName = name }
}

// WithBucketRegion sets the bucket region explicitly, bypassing the
// AWS_S3_REGION/AWS_REGION/AWS_DEFAULT_REGION lookup.
func WithBucketRegion(region string) ConfigOption {
	return func(c *Config) { c.BucketRegion = region }
}

// WithCredentials sets the access key and secret key explicitly.
func WithCredentials(accessKey, secretKey string) ConfigOption {
	return func(c *Config) {
		c.AccessKey = accessKey
		c.SecretKey = secretKey
	}
}

// WithSessionToken sets a temporary session token.
func WithSessionToken(token string) ConfigOption {
	return func(c *Config) { c.SessionToken = token }
}

// WithEndpoint sets a custom endpoint (including scheme) for S3-compatible
// services.
func WithEndpoint(endpoint string) ConfigOption {
	return func(c *Config) { c.Endpoint = endpoint }
}

// NewConfig resolves a Config from explicit options and the fixed set of
// AWS environment variables: credentials from AWS_ACCESS_KEY_ID,
// AWS_SECRET_ACCESS_KEY, and AWS_SESSION_TOKEN, and the region from
// AWS_S3_REGION, AWS_REGION, or AWS_DEFAULT_REGION, in that order. Explicit
// options always win over the environment.
func NewConfig(opts ...ConfigOption) (*Config, error) {
	cfg := &Config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	if cfg.AccessKey == "" {
		cfg.AccessKey = os.Getenv(envAccessKey)
	}
	if cfg.SecretKey == "" {
		cfg.SecretKey = os.Getenv(envSecretKey)
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.SessionToken == "" {
		cfg.SessionToken = os.Getenv(envSessionToken)
	}

	if cfg.BucketRegion == "" {
		for _, name := range regionEnvVars {
			if v := os.Getenv(name); v != "" {
				cfg.BucketRegion = v
				break
			}
		}
	}

	if cfg.BucketHost == "" && cfg.BucketName == "" {
		return nil, &ConfigError{Field: "bucket", Err: errors.New("bucket host or bucket name is required")}
	}

	if cfg.BucketHost == "" {
		// Bare bucket names are an AWS-only convenience and need a region
		// to build the virtual-hosted-style host.
		if cfg.BucketRegion == "" {
			return nil, ErrMissingRegion
		}
		cfg.Platform = PlatformAWSS3
		cfg.BucketHost = fmt.Sprintf("%s.s3.%s.amazonaws.com", cfg.BucketName, cfg.BucketRegion)
	} else {
		platform, ok := inferPlatform(cfg.BucketHost)
		if !ok {
			return nil, &ConfigError{Field: "bucket_host", Err: fmt.Errorf("unrecognized bucket host %q", cfg.BucketHost)}
		}
		cfg.Platform = platform
		if cfg.BucketName == "" {
			cfg.BucketName = bucketNameFromHost(cfg.BucketHost, platform)
		}
	}

	if auto := cfg.Platform.capabilities().autoRegion; auto != "" {
		// R2 derives its own region; us-east-1 is accepted as an alias.
		if cfg.BucketRegion == "" || cfg.BucketRegion == "us-east-1" {
			cfg.BucketRegion = auto
		}
	}
	if cfg.BucketRegion == "" {
		return nil, ErrMissingRegion
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bucketNameFromHost extracts the bucket name from a virtual-hosted-style
// host.
func bucketNameFromHost(host string, platform Platform) string {
	if platform == PlatformCloudflareR2 {
		// <bucket>.<account-id>.r2.cloudflarestorage.com
		if i := strings.Index(host, "."); i > 0 {
			return host[:i]
		}
		return ""
	}
	// <bucket>.s3.<region>.amazonaws.com or <bucket>.s3.<region>.backblazeb2.com
	if name, _, ok := strings.Cut(host, ".s3."); ok {
		return name
	}
	return ""
}

func (c *Config) validate() error {
	if c.BucketName != "" && !strings.HasPrefix(c.BucketHost, c.BucketName+".") {
		return &ConfigError{
			Field: "bucket_host",
			Err:   fmt.Errorf("host %q does not include bucket name %q", c.BucketHost, c.BucketName),
		}
	}
	if c.Platform != PlatformCloudflareR2 && strings.Contains(c.BucketHost, ".s3.") &&
		!strings.Contains(c.BucketHost, "."+c.BucketRegion+".") {
		return &ConfigError{
			Field: "bucket_region",
			Err:   fmt.Errorf("host %q does not include region %q", c.BucketHost, c.BucketRegion),
		}
	}
	return nil
}
