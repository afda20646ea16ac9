// Package httpapi exposes presigned-URL generation over HTTP, so browsers
// and other processes without credentials can upload and download dotenv
// files directly against the storage platform.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"github.com/envvault/envvault/pkg/envvault/objectstorage"
)

const defaultExpiry = 3600

// Handlers serves presigned material produced by an objectstorage client.
type Handlers struct {
	client *objectstorage.Client
	logger zerolog.Logger
	expiry int
}

// HandlersOption configures Handlers.
type HandlersOption func(*Handlers)

// WithLogger attaches a zerolog logger; the default discards everything.
func WithLogger(logger zerolog.Logger) HandlersOption {
	return func(h *Handlers) { h.logger = logger }
}

// WithDefaultExpiry sets the presign lifetime (in seconds) used when the
// request does not carry an expires parameter.
func WithDefaultExpiry(seconds int) HandlersOption {
	return func(h *Handlers) {
		if seconds > 0 {
			h.expiry = seconds
		}
	}
}

func NewHandlers(client *objectstorage.Client, opts ...HandlersOption) *Handlers {
	h := &Handlers{
		client: client,
		logger: zerolog.Nop(),
		expiry: defaultExpiry,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the router for presign endpoints
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/download/*", h.GetDownloadURL)
	r.Get("/upload/*", h.GetUploadURL)
	r.Post("/post/*", h.CreatePostPolicy)
	return r
}

// PresignResponse carries a signed URL plus the headers the caller must
// send verbatim.
type PresignResponse struct {
	URL           string            `json:"url"`
	Method        string            `json:"method"`
	Headers       map[string]string `json:"headers,omitempty"`
	SignedHeaders []string          `json:"signed_headers"`
	ExpiresIn     int               `json:"expires_in"`
}

// PostPolicyField is one form field of a POST upload, in submission order.
type PostPolicyField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PostPolicyResponse carries a signed POST policy. Fields are ordered: they
// must be written to the multipart form in sequence, file last.
type PostPolicyResponse struct {
	URL       string            `json:"url"`
	Fields    []PostPolicyField `json:"fields"`
	ExpiresIn int               `json:"expires_in"`
}

// CreatePostPolicyRequest is the optional body for POST policy requests.
type CreatePostPolicyRequest struct {
	ContentType          string `json:"content_type,omitempty"`
	ContentLength        int64  `json:"content_length,omitempty"`
	ServerSideEncryption string `json:"server_side_encryption,omitempty"`
}

// GetDownloadURL returns a presigned GET URL for the object key in the path.
func (h *Handlers) GetDownloadURL(w http.ResponseWriter, r *http.Request) {
	h.presign(w, r, http.MethodGet, nil)
}

// GetUploadURL returns a presigned PUT URL for the object key in the path.
// A content_type query parameter becomes a signed request header.
func (h *Handlers) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	var headers map[string]string
	if contentType := r.URL.Query().Get("content_type"); contentType != "" {
		headers = map[string]string{"content-type": contentType}
	}
	h.presign(w, r, http.MethodPut, headers)
}

func (h *Handlers) presign(w http.ResponseWriter, r *http.Request, method string, headers map[string]string) {
	key, expires, ok := h.keyAndExpiry(w, r)
	if !ok {
		return
	}
	presigned, err := h.client.Presign(method, key, expires, headers)
	if err != nil {
		h.renderError(w, r, key, err)
		return
	}
	h.logger.Info().Str("key", key).Str("method", method).Int("expires", expires).Msg("presigned request")
	render.JSON(w, r, PresignResponse{
		URL:           presigned.URL,
		Method:        presigned.Method,
		Headers:       presigned.Headers,
		SignedHeaders: presigned.SignedHeaders,
		ExpiresIn:     presigned.Expires,
	})
}

// CreatePostPolicy returns signed POST upload material for the object key
// in the path.
func (h *Handlers) CreatePostPolicy(w http.ResponseWriter, r *http.Request) {
	key, expires, ok := h.keyAndExpiry(w, r)
	if !ok {
		return
	}
	var req CreatePostPolicyRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}
	policy, err := h.client.BuildPostPolicy(key, expires, &objectstorage.PostOptions{
		ContentType:          req.ContentType,
		ContentLength:        req.ContentLength,
		ServerSideEncryption: req.ServerSideEncryption,
	})
	if err != nil {
		h.renderError(w, r, key, err)
		return
	}
	fields := make([]PostPolicyField, 0, len(policy.FormFields))
	for _, f := range policy.FormFields {
		fields = append(fields, PostPolicyField{Name: f.Name, Value: f.Value})
	}
	h.logger.Info().Str("key", key).Int("expires", expires).Msg("signed post policy")
	render.JSON(w, r, PostPolicyResponse{
		URL:       policy.URL,
		Fields:    fields,
		ExpiresIn: policy.Expires,
	})
}

func (h *Handlers) keyAndExpiry(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if key == "" {
		http.Error(w, "object key is required", http.StatusBadRequest)
		return "", 0, false
	}
	expires := h.expiry
	if raw := r.URL.Query().Get("expires"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid expires parameter", http.StatusBadRequest)
			return "", 0, false
		}
		expires = parsed
	}
	return key, expires, true
}

func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, key string, err error) {
	h.logger.Error().Str("key", key).Err(err).Msg("presign failed")
	switch {
	case errors.Is(err, objectstorage.ErrInvalidExpiration):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, objectstorage.ErrUnsupportedOperation):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
