package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"notify-gate.backend/internal/domain/entities"
)

const (
	// ApiKeyHeader carries the plaintext credential
	ApiKeyHeader = "X-API-Key"
	// CredentialKey is the context key for the validated credential
	CredentialKey = "credential"
)

// ApiKeyValidator runs the credential validation pipeline and always
// returns a decision.
type ApiKeyValidator interface {
	ValidateApiKey(ctx context.Context, secret, requiredScope string, reqCtx entities.RequestContext) *entities.ValidationDecision
}

// ApiKeyAuth validates the X-API-Key header and aborts with the mapped
// status code on deny. On allow the credential projection is stored in the
// gin context for handlers.
func ApiKeyAuth(validator ApiKeyValidator, requiredScope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqCtx := entities.RequestContext{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			RequestID: c.GetString(RequestIDKey),
			Endpoint:  c.FullPath(),
		}

		decision := validator.ValidateApiKey(c.Request.Context(), c.GetHeader(ApiKeyHeader), requiredScope, reqCtx)

		if rl := decision.RateLimit; rl != nil {
			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.Limit))
			remaining := int64(rl.Limit) - rl.Current
			if remaining < 0 {
				remaining = 0
			}
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			c.Header("X-RateLimit-Reset", strconv.FormatInt(rl.ResetAt.Unix(), 10))
		}

		if !decision.Allowed {
			status, code := statusForReason(decision.Reason)
			c.AbortWithStatusJSON(status, gin.H{
				"code":    code,
				"message": messageForReason(decision.Reason),
			})
			return
		}

		c.Set(CredentialKey, decision.Credential)
		c.Next()
	}
}

// GetCredential returns the validated credential set by ApiKeyAuth
func GetCredential(c *gin.Context) (*entities.CredentialInfo, bool) {
	v, exists := c.Get(CredentialKey)
	if !exists {
		return nil, false
	}
	cred, ok := v.(*entities.CredentialInfo)
	return cred, ok
}

func statusForReason(reason entities.ValidationReason) (int, string) {
	switch reason {
	case entities.ReasonInvalidFormat:
		return http.StatusBadRequest, "ERR_INVALID_KEY_FORMAT"
	case entities.ReasonRateLimitExceeded:
		return http.StatusTooManyRequests, "ERR_RATE_LIMITED"
	case entities.ReasonInvalidCredential:
		return http.StatusUnauthorized, "ERR_INVALID_CREDENTIAL"
	case entities.ReasonExpired:
		return http.StatusUnauthorized, "ERR_CREDENTIAL_EXPIRED"
	case entities.ReasonInsufficientScope:
		return http.StatusForbidden, "ERR_INSUFFICIENT_SCOPE"
	default:
		return http.StatusInternalServerError, "ERR_INTERNAL"
	}
}

func messageForReason(reason entities.ValidationReason) string {
	switch reason {
	case entities.ReasonInvalidFormat:
		return "API key is malformed"
	case entities.ReasonRateLimitExceeded:
		return "rate limit exceeded"
	case entities.ReasonInvalidCredential:
		return "invalid API key"
	case entities.ReasonExpired:
		return "API key has expired"
	case entities.ReasonInsufficientScope:
		return "API key does not grant the required scope"
	default:
		return "internal server error"
	}
}
