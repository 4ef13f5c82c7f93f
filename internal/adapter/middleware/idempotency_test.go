package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const testReqID = "3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88"

// asUser stands in for Auth and marks the request as coming from subject.
func asUser(subject string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if subject != "" {
				c.Set(claimsKey, &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: subject}})
			}
			return next(c)
		}
	}
}

func setupEcho(rdb *redis.Client, subject string, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	g := e.Group("", asUser(subject), IdempotencyMiddleware(rdb, 2*time.Minute, zerolog.Nop()))
	g.POST("/products", handler)
	g.GET("/products", handler)
	return e
}

func doReq(e *echo.Echo, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func writeHeaders(id string) map[string]string {
	return map[string]string{
		HeaderRequestID: id,
		HeaderRequestAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// countingHandler creates a fresh resource on every call that reaches it.
func countingHandler(calls *atomic.Int32) echo.HandlerFunc {
	return func(c echo.Context) error {
		n := calls.Add(1)
		return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": map[string]int32{"id": n}})
	}
}

func Test_BypassOnGET(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var calls atomic.Int32
	e := setupEcho(rdb, "1", countingHandler(&calls))
	if rec := doReq(e, http.MethodGet, "/products", "", nil); rec.Code != http.StatusCreated {
		t.Fatalf("GET must pass through without headers, got %d", rec.Code)
	}
}

func Test_HeaderValidation(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var calls atomic.Int32
	e := setupEcho(rdb, "1", countingHandler(&calls))
	now := time.Now().UTC()

	tests := []struct {
		name string
		hdr  map[string]string
	}{
		{"missing id", map[string]string{HeaderRequestAt: now.Format(time.RFC3339)}},
		{"bad id", map[string]string{HeaderRequestID: "NOT-VALID", HeaderRequestAt: now.Format(time.RFC3339)}},
		{"bad time", map[string]string{HeaderRequestID: testReqID, HeaderRequestAt: "not-a-time"}},
		{"skewed", map[string]string{HeaderRequestID: testReqID, HeaderRequestAt: now.Add(-maxClockSkew - time.Minute).Format(time.RFC3339)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doReq(e, http.MethodPost, "/products", `{"x":1}`, tt.hdr)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"message"`) {
				t.Fatalf("failure body must carry a message: %s", rec.Body.String())
			}
		})
	}
	if calls.Load() != 0 {
		t.Fatal("rejected requests must not reach the handler")
	}
}

func Test_RetryIsReplayed(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var calls atomic.Int32
	e := setupEcho(rdb, "7", countingHandler(&calls))

	rec1 := doReq(e, http.MethodPost, "/products", `{"name":"KUR"}`, writeHeaders(testReqID))
	rec2 := doReq(e, http.MethodPost, "/products", `{"name":"KUR"}`, writeHeaders(testReqID))
	if rec1.Code != http.StatusCreated || rec2.Code != http.StatusCreated {
		t.Fatalf("codes = %d, %d", rec1.Code, rec2.Code)
	}
	if calls.Load() != 1 {
		t.Fatalf("handler ran %d times, want 1", calls.Load())
	}
	if rec1.Body.String() != rec2.Body.String() || rec2.Header().Get(HeaderReplayed) != "true" {
		t.Fatalf("replay mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}

	// a new logical write gets a new id and runs again
	doReq(e, http.MethodPost, "/products", `{"name":"KUR"}`, writeHeaders("3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c89"))
	if calls.Load() != 2 {
		t.Fatalf("handler ran %d times, want 2", calls.Load())
	}
}

func Test_KeyIsPerCaller(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var calls atomic.Int32
	h := countingHandler(&calls)

	doReq(setupEcho(rdb, "1", h), http.MethodPost, "/products", `{}`, writeHeaders(testReqID))
	doReq(setupEcho(rdb, "2", h), http.MethodPost, "/products", `{}`, writeHeaders(testReqID))
	doReq(setupEcho(rdb, "", h), http.MethodPost, "/products", `{}`, writeHeaders(testReqID))
	if calls.Load() != 3 {
		t.Fatalf("same id from different callers must not collide, calls = %d", calls.Load())
	}
}

func Test_ServerErrorIsNotCached(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var calls atomic.Int32
	e := setupEcho(rdb, "1", func(c echo.Context) error {
		if calls.Add(1) == 1 {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"message": "busy"})
		}
		return c.JSON(http.StatusCreated, map[string]bool{"success": true})
	})

	if rec := doReq(e, http.MethodPost, "/products", `{}`, writeHeaders(testReqID)); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("first = %d", rec.Code)
	}
	if rec := doReq(e, http.MethodPost, "/products", `{}`, writeHeaders(testReqID)); rec.Code != http.StatusCreated {
		t.Fatalf("retry after 5xx must reach the handler, got %d", rec.Code)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d", calls.Load())
	}
}

func Test_Conflicts(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var calls atomic.Int32
	e := setupEcho(rdb, "1", countingHandler(&calls))
	key := buildKey(http.MethodPost, "/products", "1", testReqID)

	t.Run("in progress", func(t *testing.T) {
		entry := idempEntry{InProgress: true, BodySHA256: bodyHash([]byte(`{"x":1}`)), RequestID: testReqID}
		if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
			t.Fatalf("seed provisional: ok=%v err=%v", ok, err)
		}
		rec := doReq(e, http.MethodPost, "/products", `{"x":1}`, writeHeaders(testReqID))
		if rec.Code != http.StatusConflict {
			t.Fatalf("want 409, got %d", rec.Code)
		}
		rdb.Del(context.Background(), key)
	})

	t.Run("same id different body", func(t *testing.T) {
		final := idempEntry{Code: http.StatusCreated, Body: []byte(`{"ok":true}`), BodySHA256: bodyHash([]byte(`{"x":1}`))}
		if err := saveFinal(context.Background(), rdb, key, final, time.Minute); err != nil {
			t.Fatalf("seed final: %v", err)
		}
		rec := doReq(e, http.MethodPost, "/products", `{"x":2}`, writeHeaders(testReqID))
		if rec.Code != http.StatusConflict {
			t.Fatalf("want 409, got %d", rec.Code)
		}
	})

	if calls.Load() != 0 {
		t.Fatal("conflicting requests must not reach the handler")
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	// closed address fails fast
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	var calls atomic.Int32
	e := setupEcho(rdb, "1", countingHandler(&calls))

	rec := doReq(e, http.MethodPost, "/products", `{}`, writeHeaders(testReqID))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d", rec.Code)
	}
}

func Test_ReplayNoContent(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var calls atomic.Int32
	e := echo.New()
	g := e.Group("", asUser("1"), IdempotencyMiddleware(rdb, time.Minute, zerolog.Nop()))
	g.DELETE("/products/:id", func(c echo.Context) error {
		calls.Add(1)
		return c.NoContent(http.StatusNoContent)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/products/3", bytes.NewReader(nil))
		for k, v := range writeHeaders(testReqID) {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("attempt %d: code %d", i, rec.Code)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d", calls.Load())
	}
}
