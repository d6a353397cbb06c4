package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	pkgResponse "dealership-chat-router/pkg/response"
)

const signatureHeader = "X-Signature"

// VerifySignature authenticates the calling chat service via an HMAC-SHA256
// body signature, sent as "sha256=<hex>". Disabled unless a secret is
// configured.
func (m Middleware) VerifySignature() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.config.SignatureEnabled {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			m.l.Errorf(c.Request.Context(), "middleware: failed to read request body: %v", err)
			pkgResponse.Error(c, err, nil)
			c.Abort()
			return
		}
		// Restore the body for downstream handlers.
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !m.validSignature(body, c.GetHeader(signatureHeader)) {
			m.l.Warnf(c.Request.Context(), "middleware: signature verification failed from %s", c.ClientIP())
			pkgResponse.Unauthorized(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m Middleware) validSignature(payload []byte, signature string) bool {
	if m.config.Secret == "" {
		return false
	}
	if !strings.HasPrefix(signature, "sha256=") {
		return false
	}

	expected, err := hex.DecodeString(strings.TrimPrefix(signature, "sha256="))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(m.config.Secret))
	mac.Write(payload)

	// Constant-time comparison on raw bytes
	return hmac.Equal(expected, mac.Sum(nil))
}
