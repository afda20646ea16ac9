package objectstorage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Form field names for POST policy uploads. Field and condition keys are
// case-insensitive on the server; they are normalized to lowercase here.
const (
	fieldPolicy        = "policy"
	fieldAlgorithm     = "x-amz-algorithm"
	fieldCredential    = "x-amz-credential"
	fieldDate          = "x-amz-date"
	fieldSecurityToken = "x-amz-security-token"
	fieldSignature     = "x-amz-signature"
)

// The POST policy expiration format differs from X-Amz-Date: it carries
// milliseconds and dashes, though AWS calls both ISO 8601.
const postExpirationFormat = "2006-01-02T15:04:05.000Z"

// filenameTemplate in a key turns the exact-match key condition into a
// starts-with prefix condition, letting the uploader choose the filename.
const filenameTemplate = "${filename}"

// FormField is one multipart form entry. Some platforms require fields in
// request order, so fields are kept as a slice rather than a map.
type FormField struct {
	Name  string
	Value string
}

// PostPolicy is the signed material for a form-based upload: the URL to
// POST to, the base64-encoded policy document, and the ordered form fields
// ending with the signature.
type PostPolicy struct {
	URL        string
	Policy     string // base64-encoded policy JSON
	Signature  string // hex-encoded
	FormFields []FormField
	Expires    int
}

// PostOptions control the policy conditions and form fields for a form
// upload.
type PostOptions struct {
	ContentType          string // default "text/plain"
	ContentLength        int64  // when > 0, pins content-length-range to exactly this size
	ServerSideEncryption string // e.g. "AES256"

	// DisableContentDisposition skips the attachment content-disposition
	// condition derived from the key's filename.
	DisableContentDisposition bool

	// ExtraConditions are appended verbatim to the policy conditions. Each
	// entry must marshal to a valid condition: a single-key map or a two-
	// or three-element array.
	ExtraConditions []any

	// ExtraFields are appended to the form fields before the signature.
	ExtraFields []FormField
}

type postPolicyDocument struct {
	Expiration string `json:"expiration"`
	Conditions []any  `json:"conditions"`
}

// BuildPostPolicy constructs and signs a POST upload policy for key.
// Platforms without single-part POST uploads (Backblaze B2, Cloudflare R2)
// are rejected before anything is signed.
//
// The signing chain is the same as for presigned URLs, but the base64
// policy document is signed directly; there is no canonical request.
func (c *Client) BuildPostPolicy(key string, expires int, opts *PostOptions) (*PostPolicy, error) {
	caps := c.config.Platform.capabilities()
	if !caps.supportsPost {
		return nil, fmt.Errorf("%w: POST upload on %s", ErrUnsupportedOperation, c.config.Platform)
	}
	if expires < 1 || expires > caps.maxExpiry {
		return nil, fmt.Errorf("%w: %d seconds (platform allows 1 to %d)", ErrInvalidExpiration, expires, caps.maxExpiry)
	}
	if opts == nil {
		opts = &PostOptions{}
	}
	contentType := opts.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	key = strings.TrimPrefix(key, "/")

	now := c.now().UTC().Truncate(time.Second)
	sc := c.config.newSigningContext(now)
	expiration := now.Add(time.Duration(expires) * time.Second).Format(postExpirationFormat)

	conditions := []any{
		map[string]string{fieldAlgorithm: signingAlgorithm},
		map[string]string{fieldCredential: sc.credential},
		map[string]string{fieldDate: sc.amzDate},
	}
	if c.config.SessionToken != "" {
		conditions = append(conditions, map[string]string{fieldSecurityToken: c.config.SessionToken})
	}
	if c.config.BucketName != "" {
		conditions = append(conditions, map[string]string{"bucket": c.config.BucketName})
	}
	if prefix, templated := strings.CutSuffix(key, filenameTemplate); templated {
		conditions = append(conditions, []any{"starts-with", "$key", prefix})
	} else {
		conditions = append(conditions, map[string]string{"key": key})
	}
	var contentDisposition string
	if !opts.DisableContentDisposition {
		if filename := key[strings.LastIndex(key, "/")+1:]; filename != "" && filename != filenameTemplate {
			contentDisposition = fmt.Sprintf("attachment; filename=%q", filename)
			conditions = append(conditions, map[string]string{"content-disposition": contentDisposition})
		}
	}
	if opts.ContentLength > 0 {
		conditions = append(conditions, []any{"content-length-range", opts.ContentLength, opts.ContentLength})
	}
	conditions = append(conditions, map[string]string{"content-type": contentType})
	if opts.ServerSideEncryption != "" {
		conditions = append(conditions, map[string]string{"x-amz-server-side-encryption": opts.ServerSideEncryption})
	}
	conditions = append(conditions, opts.ExtraConditions...)

	raw, err := json.Marshal(postPolicyDocument{Expiration: expiration, Conditions: conditions})
	if err != nil {
		return nil, fmt.Errorf("marshal post policy: %w", err)
	}
	policy := base64.StdEncoding.EncodeToString(raw)

	signingKey := deriveSigningKey(c.config.SecretKey, sc.dateStamp, c.config.BucketRegion, serviceS3)
	signature := signHex(signingKey, policy)

	fields := []FormField{
		{fieldPolicy, policy},
		{fieldAlgorithm, signingAlgorithm},
		{fieldCredential, sc.credential},
		{fieldDate, sc.amzDate},
	}
	if c.config.SessionToken != "" {
		fields = append(fields, FormField{fieldSecurityToken, c.config.SessionToken})
	}
	fields = append(fields, FormField{"key", key})
	if contentDisposition != "" {
		fields = append(fields, FormField{"content-disposition", contentDisposition})
	}
	fields = append(fields, FormField{"content-type", contentType})
	if opts.ServerSideEncryption != "" {
		fields = append(fields, FormField{"x-amz-server-side-encryption", opts.ServerSideEncryption})
	}
	fields = append(fields, opts.ExtraFields...)
	fields = append(fields, FormField{fieldSignature, signature})

	scheme, host, basePath, err := c.requestTarget()
	if err != nil {
		return nil, err
	}

	return &PostPolicy{
		URL:        scheme + "://" + host + basePath + "/",
		Policy:     policy,
		Signature:  signature,
		FormFields: fields,
		Expires:    expires,
	}, nil
}
