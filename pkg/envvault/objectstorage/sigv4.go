package objectstorage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"time"
)

// AWS Signature Version 4 constants.
const (
	signingAlgorithm  = "AWS4-HMAC-SHA256"
	unsignedPayload   = "UNSIGNED-PAYLOAD"
	serviceS3         = "s3"
	terminationString = "aws4_request"

	amzDateFormat   = "20060102T150405Z"
	dateStampFormat = "20060102"
)

// maxPresignExpiry is the longest presign lifetime any supported platform
// accepts: seven days.
const maxPresignExpiry = 604800

func hmacSHA256(key []byte, message string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))
	return mac.Sum(nil)
}

func hashSHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

const upperhex = "0123456789ABCDEF"

// uriEncode implements the AWS flavor of percent-encoding: unreserved
// characters pass through, spaces become %20, and '/' survives only when
// encoding a path.
func uriEncode(s string, keepSlash bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		case c == '/' && keepSlash:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		}
	}
	return b.String()
}

// canonicalURI percent-encodes each path segment, preserving separators and
// ensuring a leading slash.
func canonicalURI(key string) string {
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}
	return uriEncode(key, true)
}

// canonicalQueryString renders query parameters sorted lexicographically by
// key, keys and values URI-encoded. An empty parameter set renders as the
// empty string, not an omitted line.
func canonicalQueryString(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(params))
	for _, k := range keys {
		values := append([]string(nil), params[k]...)
		sort.Strings(values)
		for _, v := range values {
			pairs = append(pairs, uriEncode(k, false)+"="+uriEncode(v, false))
		}
	}
	return strings.Join(pairs, "&")
}

// canonicalHeaders lower-cases header names, trims values and collapses
// internal whitespace, sorts by name, and returns the canonical header block
// plus the semicolon-joined signed header names.
func canonicalHeaders(headers map[string]string) (block string, signedNames string) {
	names := make([]string, 0, len(headers))
	normalized := make(map[string]string, len(headers))
	for name, value := range headers {
		lower := strings.ToLower(strings.TrimSpace(name))
		normalized[lower] = strings.Join(strings.Fields(value), " ")
		names = append(names, lower)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(normalized[name])
		b.WriteByte('\n')
	}
	return b.String(), strings.Join(names, ";")
}

// buildCanonicalRequest joins the five canonical lines and the payload hash.
// The header block already ends with a newline, which yields the blank line
// the algorithm requires between the headers and the signed header names.
func buildCanonicalRequest(method, uri, query, headerBlock, signedNames, payloadHash string) string {
	return strings.Join([]string{method, uri, query, headerBlock, signedNames, payloadHash}, "\n")
}

// buildStringToSign assembles the final signing input from the timestamp,
// credential scope, and the hex SHA-256 of the canonical request.
func buildStringToSign(amzDate, scope, canonicalRequest string) string {
	return strings.Join([]string{
		signingAlgorithm,
		amzDate,
		scope,
		hashSHA256Hex([]byte(canonicalRequest)),
	}, "\n")
}

// deriveSigningKey runs the four-round HMAC-SHA256 chain that scopes a
// secret key to a date, region, and service.
func deriveSigningKey(secretKey, dateStamp, region, service string) []byte {
	dateKey := hmacSHA256([]byte("AWS4"+secretKey), dateStamp)
	regionKey := hmacSHA256(dateKey, region)
	serviceKey := hmacSHA256(regionKey, service)
	return hmacSHA256(serviceKey, terminationString)
}

// signHex computes the hex-encoded signature over stringToSign.
func signHex(signingKey []byte, stringToSign string) string {
	return hex.EncodeToString(hmacSHA256(signingKey, stringToSign))
}

// signingContext carries the per-request timestamp material. A fresh one is
// derived for every signed operation and never reused.
type signingContext struct {
	amzDate    string
	dateStamp  string
	scope      string
	credential string
}

func (c *Config) newSigningContext(now time.Time) signingContext {
	now = now.UTC().Truncate(time.Second)
	amzDate := now.Format(amzDateFormat)
	dateStamp := now.Format(dateStampFormat)
	scope := strings.Join([]string{dateStamp, c.BucketRegion, serviceS3, terminationString}, "/")
	return signingContext{
		amzDate:    amzDate,
		dateStamp:  dateStamp,
		scope:      scope,
		credential: c.AccessKey + "/" + scope,
	}
}
