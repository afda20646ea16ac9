package objectstorage

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names used by SigV4 query-string authentication.
const (
	paramAlgorithm     = "X-Amz-Algorithm"
	paramCredential    = "X-Amz-Credential"
	paramDate          = "X-Amz-Date"
	paramExpires       = "X-Amz-Expires"
	paramSecurityToken = "X-Amz-Security-Token"
	paramSignedHeaders = "X-Amz-SignedHeaders"
	paramSignature     = "X-Amz-Signature"
)

// PresignedRequest is a fully signed request: the URL plus the headers the
// caller must send verbatim for the signature to verify on the server.
type PresignedRequest struct {
	URL           string
	Method        string
	Headers       map[string]string
	SignedHeaders []string
	Expires       int
}

// Presign builds a query-string-authenticated URL for the given method and
// object key, valid for expires seconds.
//
// Extra headers are included in the signature and returned in Headers.
// Platforms enforce headers such as content-type and
// x-amz-server-side-encryption only when they arrive as real request
// headers, so they are never folded into the query string.
func (c *Client) Presign(method, key string, expires int, extraHeaders map[string]string) (*PresignedRequest, error) {
	if !presignMethods[method] {
		return nil, fmt.Errorf("%w: cannot presign method %s", ErrUnsupportedOperation, method)
	}
	caps := c.config.Platform.capabilities()
	if expires < 1 || expires > caps.maxExpiry {
		return nil, fmt.Errorf("%w: %d seconds (platform allows 1 to %d)", ErrInvalidExpiration, expires, caps.maxExpiry)
	}

	scheme, host, basePath, err := c.requestTarget()
	if err != nil {
		return nil, err
	}

	headers := map[string]string{"host": host}
	requestHeaders := make(map[string]string, len(extraHeaders))
	for name, value := range extraHeaders {
		lower := strings.ToLower(strings.TrimSpace(name))
		headers[lower] = value
		requestHeaders[lower] = value
	}
	headerBlock, signedNames := canonicalHeaders(headers)

	sc := c.config.newSigningContext(c.now())
	params := url.Values{}
	params.Set(paramAlgorithm, signingAlgorithm)
	params.Set(paramCredential, sc.credential)
	params.Set(paramDate, sc.amzDate)
	params.Set(paramExpires, strconv.Itoa(expires))
	if c.config.SessionToken != "" {
		params.Set(paramSecurityToken, c.config.SessionToken)
	}
	params.Set(paramSignedHeaders, signedNames)

	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}
	uri := canonicalURI(basePath + key)
	query := canonicalQueryString(params)

	canonicalRequest := buildCanonicalRequest(method, uri, query, headerBlock, signedNames, unsignedPayload)
	stringToSign := buildStringToSign(sc.amzDate, sc.scope, canonicalRequest)
	signingKey := deriveSigningKey(c.config.SecretKey, sc.dateStamp, c.config.BucketRegion, serviceS3)
	signature := signHex(signingKey, stringToSign)

	// The signature is appended last so the rendered query matches exactly
	// what was signed.
	rawURL := scheme + "://" + host + uri + "?" + query + "&" + paramSignature + "=" + signature

	return &PresignedRequest{
		URL:           rawURL,
		Method:        method,
		Headers:       requestHeaders,
		SignedHeaders: strings.Split(signedNames, ";"),
		Expires:       expires,
	}, nil
}

// requestTarget resolves where requests go: the virtual-hosted bucket host
// by default, or the configured endpoint with path-style addressing.
func (c *Client) requestTarget() (scheme, host, basePath string, err error) {
	if c.config.Endpoint == "" {
		return "https", c.config.BucketHost, "", nil
	}
	u, err := url.Parse(c.config.Endpoint)
	if err != nil || u.Host == "" {
		return "", "", "", &ConfigError{Field: "endpoint", Err: fmt.Errorf("unparseable endpoint %q", c.config.Endpoint)}
	}
	scheme = u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme, u.Host, "/" + c.config.BucketName, nil
}

// presignMethods are the HTTP methods query-string authentication is used
// with in practice.
var presignMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodHead:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}
