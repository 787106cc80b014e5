package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/velizarh/taskboard/internal/config"
)

// captureWriter tees the response body into a buffer while forwarding it
// to the client, so a successful response can be stored after the fact.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.size < cw.limit {
		if remain := cw.limit - cw.size; int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// NewRedisCache returns a middleware caching successful JSON responses in
// Redis for the configured TTL.  Responses are private per user, so the
// cache key always includes the authenticated identity next to path and
// query; two users listing /tasks never see each other's cached page.
// Disabled configuration or a missing Redis client yields a pass-through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKey(cfg, c)

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil && len(body) > 0 {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, body)
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			// Only complete 200 responses are cached; oversized bodies
			// were truncated by the writer and must be skipped.
			if cw.status == http.StatusOK && cw.size <= cw.limit {
				_ = rdb.SetEx(context.Background(), key, cw.buf.Bytes(), cfg.TTL).Err()
			}
			return nil
		}
	}
}

// cacheKey hashes user, path and query into a fixed-size key under the
// configured prefix.  The concrete request path goes into the key, not the
// route template: /tasks/aaaa and /tasks/bbbb are different resources and
// must never share an entry.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	raw := strings.Join([]string{
		"user", contextUser(c),
		"path", c.Request().URL.Path,
		"q", c.Request().URL.RawQuery,
	}, ":")
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}
