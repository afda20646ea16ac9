package objectstorage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultContentType = "text/plain"

// defaultTransferExpiry bounds the lifetime of the presigned material
// backing a direct Download or Upload call. Transfers start immediately, so
// the window is kept short.
const defaultTransferExpiry = 30

// Client performs download and upload operations against a single bucket.
// Every signed operation derives its state from the immutable Config, so a
// Client is safe for concurrent use without locking. The Client performs no
// retries; callers wanting retry/backoff wrap it themselves.
type Client struct {
	config         *Config
	httpClient     *http.Client
	logger         zerolog.Logger
	now            func() time.Time
	transferExpiry int
}

// ClientOption is a functional option for configuring a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client, e.g. to set timeouts or
// a custom transport.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger attaches a zerolog logger; the default discards everything.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithTransferExpiry overrides the presign lifetime (in seconds) used by
// Download, Upload, UploadPost, and Exists.
func WithTransferExpiry(seconds int) ClientOption {
	return func(c *Client) {
		if seconds > 0 {
			c.transferExpiry = seconds
		}
	}
}

// NewClient creates a client for the bucket described by cfg.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, &ConfigError{Field: "config", Err: errors.New("config is required")}
	}
	c := &Client{
		config:         cfg,
		httpClient:     &http.Client{},
		logger:         zerolog.Nop(),
		now:            time.Now,
		transferExpiry: defaultTransferExpiry,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() *Config {
	return c.config
}

// Download fetches the object at key and returns its contents.
func (c *Client) Download(ctx context.Context, key string) ([]byte, error) {
	presigned, err := c.Presign(http.MethodGet, key, c.transferExpiry, nil)
	if err != nil {
		return nil, &StorageError{Op: "download", Key: key, Err: err}
	}
	body, err := c.do(ctx, presigned.Method, presigned.URL, nil, nil)
	if err != nil {
		return nil, &StorageError{Op: "download", Key: key, Err: err}
	}
	c.logger.Info().
		Str("key", key).
		Str("bucket_host", c.config.BucketHost).
		Int("bytes", len(body)).
		Msg("downloaded object")
	return body, nil
}

// DownloadFile fetches the object at key and writes it to dest.
func (c *Client) DownloadFile(ctx context.Context, key, dest string) error {
	body, err := c.Download(ctx, key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, body, 0o600); err != nil {
		return &StorageError{Op: "download", Key: key, Err: err}
	}
	return nil
}

// UploadOptions control the signed headers sent with a PUT upload.
type UploadOptions struct {
	ContentType          string // default "text/plain"
	ServerSideEncryption string // e.g. "AES256"

	// ChecksumSHA256 signs and sends an x-amz-checksum-sha256 integrity
	// header computed over the body.
	ChecksumSHA256 bool
}

// Upload stores body at key using a query-string-authenticated PUT, the
// path every supported platform accepts. Content-type and encryption
// headers are signed and sent as real request headers.
func (c *Client) Upload(ctx context.Context, key string, body []byte, opts *UploadOptions) error {
	if opts == nil {
		opts = &UploadOptions{}
	}
	contentType := opts.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	headers := map[string]string{"content-type": contentType}
	if opts.ServerSideEncryption != "" {
		headers["x-amz-server-side-encryption"] = opts.ServerSideEncryption
	}
	if opts.ChecksumSHA256 {
		sum := sha256.Sum256(body)
		headers["x-amz-checksum-sha256"] = base64.StdEncoding.EncodeToString(sum[:])
	}

	presigned, err := c.Presign(http.MethodPut, key, c.transferExpiry, headers)
	if err != nil {
		return &StorageError{Op: "upload", Key: key, Err: err}
	}
	if _, err := c.do(ctx, presigned.Method, presigned.URL, bytes.NewReader(body), presigned.Headers); err != nil {
		return &StorageError{Op: "upload", Key: key, Err: err}
	}
	c.logger.Info().
		Str("key", key).
		Str("bucket_host", c.config.BucketHost).
		Int("bytes", len(body)).
		Msg("uploaded object")
	return nil
}

// UploadPost stores body at key with a signed multipart POST, for callers
// that explicitly want form-based uploads. Platforms whose capability table
// forbids POST fail with ErrUnsupportedOperation before any request is made.
func (c *Client) UploadPost(ctx context.Context, key string, body []byte, opts *PostOptions) error {
	o := PostOptions{}
	if opts != nil {
		o = *opts
	}
	if o.ContentLength == 0 {
		o.ContentLength = int64(len(body))
	}
	policy, err := c.BuildPostPolicy(key, c.transferExpiry, &o)
	if err != nil {
		return &StorageError{Op: "upload", Key: key, Err: err}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, field := range policy.FormFields {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return &StorageError{Op: "upload", Key: key, Err: err}
		}
	}
	// The file must be the final form field.
	filename := key[strings.LastIndex(key, "/")+1:]
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return &StorageError{Op: "upload", Key: key, Err: err}
	}
	if _, err := fw.Write(body); err != nil {
		return &StorageError{Op: "upload", Key: key, Err: err}
	}
	if err := w.Close(); err != nil {
		return &StorageError{Op: "upload", Key: key, Err: err}
	}

	headers := map[string]string{"content-type": w.FormDataContentType()}
	if _, err := c.do(ctx, http.MethodPost, policy.URL, &buf, headers); err != nil {
		return &StorageError{Op: "upload", Key: key, Err: err}
	}
	c.logger.Info().
		Str("key", key).
		Str("bucket_host", c.config.BucketHost).
		Int("bytes", len(body)).
		Msg("uploaded object via POST policy")
	return nil
}

// Exists reports whether an object is present at key, using a presigned
// HEAD request.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	presigned, err := c.Presign(http.MethodHead, key, c.transferExpiry, nil)
	if err != nil {
		return false, &StorageError{Op: "head", Key: key, Err: err}
	}
	if _, err := c.do(ctx, presigned.Method, presigned.URL, nil, nil); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, &StorageError{Op: "head", Key: key, Err: err}
	}
	return true, nil
}

// do issues the request and enforces the 2xx contract. The response body is
// preserved on failure so callers can see what the platform said.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Method: method, URL: rawURL, StatusCode: resp.StatusCode, Body: respBody}
	}
	return respBody, nil
}
