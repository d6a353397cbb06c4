package middleware_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"dealership-chat-router/config"
	"dealership-chat-router/internal/middleware"
	"dealership-chat-router/pkg/response"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/test", mw, func(c *gin.Context) {
		body, _ := c.GetRawData()
		c.JSON(http.StatusOK, gin.H{"echo": string(body)})
	})
	return r
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test-secret"
	m := middleware.New(&mockLogger{}, config.SecurityConfig{
		SignatureEnabled: true,
		Secret:           secret,
	})
	router := newRouter(m.VerifySignature())

	body := []byte(`{"text":"hello"}`)

	t.Run("Valid Signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(body))
		req.Header.Set("X-Signature", sign(secret, body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
		// Body must be readable downstream after verification.
		if !bytes.Contains(w.Body.Bytes(), []byte("hello")) {
			t.Errorf("downstream handler did not see the body: %s", w.Body.String())
		}
	})

	t.Run("Invalid Signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(body))
		req.Header.Set("X-Signature", sign("wrong-secret", body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}

		// Rejections use the standard envelope like every other endpoint.
		var resp response.Resp
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ErrorCode != http.StatusUnauthorized {
			t.Errorf("expected error_code 401, got %d", resp.ErrorCode)
		}
	})

	t.Run("Missing Signature", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("Malformed Prefix", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(body))
		req.Header.Set("X-Signature", "md5=deadbeef")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("Disabled Passes Through", func(t *testing.T) {
		off := middleware.New(&mockLogger{}, config.SecurityConfig{SignatureEnabled: false})
		r := newRouter(off.VerifySignature())

		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200 with verification disabled, got %d", w.Code)
		}
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("Limits Per Dealership", func(t *testing.T) {
		m := middleware.New(&mockLogger{}, config.SecurityConfig{
			RateLimitEnabled: true,
			RateLimitPerMin:  5,
		})
		router := newRouter(m.RateLimit())

		do := func(dealership string) int {
			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			req.Header.Set("X-Dealership-ID", dealership)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w.Code
		}

		// Burst of 5 is allowed, the 6th is rejected.
		for i := 0; i < 5; i++ {
			if code := do("42"); code != http.StatusOK {
				t.Fatalf("request %d: expected 200, got %d", i+1, code)
			}
		}
		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		req.Header.Set("X-Dealership-ID", "42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusTooManyRequests {
			t.Errorf("expected 429 after burst, got %d", w.Code)
		}
		var resp response.Resp
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ErrorCode != http.StatusTooManyRequests {
			t.Errorf("expected error_code 429, got %d", resp.ErrorCode)
		}

		// A different dealership has its own budget.
		if code := do("7"); code != http.StatusOK {
			t.Errorf("expected 200 for separate dealership, got %d", code)
		}
	})

	t.Run("Disabled Passes Through", func(t *testing.T) {
		m := middleware.New(&mockLogger{}, config.SecurityConfig{RateLimitEnabled: false})
		router := newRouter(m.RateLimit())

		for i := 0; i < 50; i++ {
			req := httptest.NewRequest(http.MethodPost, "/test", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("request %d: expected 200 with limiting disabled, got %d", i+1, w.Code)
			}
		}
	})
}
