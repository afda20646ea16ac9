package objectstorage

import "strings"

// Platform identifies the S3-compatible service behind a bucket host.
type Platform int

const (
	PlatformAWSS3 Platform = iota
	PlatformBackblazeB2
	PlatformCloudflareR2
)

func (p Platform) String() string {
	switch p {
	case PlatformBackblazeB2:
		return "backblaze-b2"
	case PlatformCloudflareR2:
		return "cloudflare-r2"
	default:
		return "aws-s3"
	}
}

// capabilities records what each platform supports, so the client can reject
// impossible platform/method combinations before anything is signed or sent.
type capabilities struct {
	supportsPost bool
	maxExpiry    int    // seconds
	autoRegion   string // region the platform derives itself, if any
}

func (p Platform) capabilities() capabilities {
	switch p {
	case PlatformBackblazeB2:
		// B2's S3-compatible surface has no single-part POST upload.
		return capabilities{supportsPost: false, maxExpiry: maxPresignExpiry}
	case PlatformCloudflareR2:
		return capabilities{supportsPost: false, maxExpiry: maxPresignExpiry, autoRegion: "auto"}
	default:
		return capabilities{supportsPost: true, maxExpiry: maxPresignExpiry}
	}
}

// Virtual-hosted-style host suffixes for the supported platforms.
const (
	awsHostSuffix        = ".amazonaws.com"
	backblazeHostSuffix  = ".backblazeb2.com"
	cloudflareHostSuffix = ".r2.cloudflarestorage.com"
)

// inferPlatform maps a virtual-hosted-style bucket host to its platform.
func inferPlatform(host string) (Platform, bool) {
	switch {
	case strings.HasSuffix(host, cloudflareHostSuffix):
		return PlatformCloudflareR2, true
	case strings.HasSuffix(host, backblazeHostSuffix):
		return PlatformBackblazeB2, true
	case strings.HasSuffix(host, awsHostSuffix):
		return PlatformAWSS3, true
	}
	return PlatformAWSS3, false
}
