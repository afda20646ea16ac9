// Package objectstorage is a minimal client for S3-compatible object
// storage, built around its own implementation of AWS Signature Version 4.
//
// It supports AWS S3, Backblaze B2, and Cloudflare R2 buckets addressed in
// virtual-hosted style. Downloads and uploads run over presigned URLs
// (query-string authentication); form-based POST uploads use signed POST
// policies on platforms that allow them. Platform differences are captured
// in a small capability table consumed by the Client, so the operation flow
// is uniform across platforms.
//
// All signing state is derived per request from an immutable Config, so a
// Client is safe for concurrent use without locking. The client performs no
// retries: every non-2xx response surfaces as an *HTTPError carrying the
// status code and response body.
package objectstorage
