package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/giggleglory/backoffice/api/responses"
	pkgerrors "github.com/giggleglory/backoffice/pkg/errors"
	"github.com/giggleglory/backoffice/pkg/logger"
	pkgredis "github.com/giggleglory/backoffice/pkg/redis"
)

const (
	createReplayTTL   = 24 * time.Hour
	uploadReplayTTL   = 7 * 24 * time.Hour
	idempotencyHeader = "Idempotency-Key"
)

// replayRule marks a POST endpoint whose responses can be replayed.
type replayRule struct {
	path   string
	prefix bool
	ttl    time.Duration
}

func (r replayRule) matches(path string) bool {
	if r.prefix {
		return strings.HasPrefix(path, r.path) && len(path) > len(r.path)
	}
	return path == r.path
}

var replayRules = []replayRule{
	{path: "/api/brands", ttl: createReplayTTL},
	{path: "/api/categories", ttl: createReplayTTL},
	{path: "/api/ageGroups", ttl: createReplayTTL},
	{path: "/api/products", ttl: createReplayTTL},
	{path: "/api/upload/", prefix: true, ttl: uploadReplayTTL},
}

// storedResponse is what gets written to Redis per key.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType,omitempty"`
	Body        string `json:"body"`
	BodyHash    string `json:"bodyHash"`
}

// Idempotency replays the stored response of a create or upload request that
// repeats an Idempotency-Key. Requests without the header, routes without a
// rule, and deployments without a store pass straight through. Bodies larger
// than maxBody are rejected.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger, maxBody int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, ok := replayTTL(r.Method, r.URL.Path)
			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if !ok || store == nil || clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := bufferBody(w, r, maxBody)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithField(ctx, "idempotency_key", clientKey)
			}
			key := store.IdempotencyKey(r.Method+"|"+r.URL.Path, clientKey)
			bodyHash := hashBody(body)

			prior, err := lookup(ctx, store, key)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if prior != nil {
				if prior.BodyHash != bodyHash {
					responses.WriteError(ctx, logg, w,
						pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				if logg != nil {
					logg.Info(ctx, "idempotency.replay")
				}
				prior.writeTo(w)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			// 5xx responses are not stored so the client can retry.
			if capture.status >= http.StatusInternalServerError {
				return
			}
			persist(ctx, store, logg, key, ttl, storedResponse{
				Status:      statusOrOK(capture.status),
				ContentType: capture.Header().Get("Content-Type"),
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				BodyHash:    bodyHash,
			})
		})
	}
}

func replayTTL(method, path string) (time.Duration, bool) {
	if method != http.MethodPost {
		return 0, false
	}
	for _, rule := range replayRules {
		if rule.matches(path) {
			return rule.ttl, true
		}
	}
	return 0, false
}

// bufferBody reads the whole request body and rewinds it for the handler.
func bufferBody(w http.ResponseWriter, r *http.Request, maxBody int64) ([]byte, error) {
	reader := io.Reader(r.Body)
	if maxBody > 0 {
		reader = http.MaxBytesReader(w, r.Body, maxBody)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body too large").
				WithDetails(map[string]any{"maxBytes": maxBody})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request")
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func lookup(ctx context.Context, store pkgredis.IdempotencyStore, key string) (*storedResponse, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, redis.Nil) || (err == nil && raw == "") {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	}
	var prior storedResponse
	if err := json.Unmarshal([]byte(raw), &prior); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	return &prior, nil
}

func persist(ctx context.Context, store pkgredis.IdempotencyStore, logg *logger.Logger, key string, ttl time.Duration, resp storedResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		logError(ctx, logg, "idempotency.marshal_failed", err)
		return
	}
	if _, err := store.SetNX(ctx, key, string(payload), ttl); err != nil {
		logError(ctx, logg, "idempotency.persist_failed", err)
	}
}

func (s *storedResponse) writeTo(w http.ResponseWriter) {
	if s.ContentType != "" {
		w.Header().Set("Content-Type", s.ContentType)
	}
	w.WriteHeader(s.Status)
	if decoded, err := base64.StdEncoding.DecodeString(s.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func statusOrOK(status int) int {
	if status == 0 {
		return http.StatusOK
	}
	return status
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
