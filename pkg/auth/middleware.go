package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
	"github.com/gin-gonic/gin"
)

const claimsKey = "storefront_claims"

// Messages sent with a 401.
const (
	MsgNotLoggedIn  = "not logged in"
	MsgTokenExpired = "session expired, please log in again"
	ErrUnauthorized = "Unauthorized"
)

// RequireLogin rejects requests without a valid bearer token with a 401
// storefront envelope. "My cakes" and the profile route sit behind it.
func RequireLogin(secret string) gin.HandlerFunc {
	return authenticate(secret, true)
}

// IdentifyUser records the user when a valid token is present and lets
// every request through. Creating a product works anonymously, but a
// logged-in creator is stamped on the record.
func IdentifyUser(secret string) gin.HandlerFunc {
	return authenticate(secret, false)
}

func authenticate(secret string, required bool) gin.HandlerFunc {
	logger := logging.GetDefault()

	return func(c *gin.Context) {
		claims, err := bearerClaims(c.GetHeader("Authorization"), secret)
		if err == nil {
			c.Set(claimsKey, claims)
			c.Request = c.Request.WithContext(logging.WithUsername(c.Request.Context(), claims.Username))
			c.Next()
			return
		}
		if !required {
			c.Next()
			return
		}

		logger.WithFields(map[string]interface{}{
			"path":   c.Request.URL.Path,
			"reason": err.Error(),
		}).Warn(c.Request.Context(), "Rejected request without a valid session")

		message := MsgNotLoggedIn
		if errors.Is(err, ErrTokenExpired) {
			message = MsgTokenExpired
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.APIResponse{
			Success: false,
			Message: message,
			Error:   ErrUnauthorized,
		})
	}
}

// bearerClaims validates an "Authorization: Bearer <jwt>" header value. The
// scheme is case-insensitive.
func bearerClaims(header, secret string) (*Claims, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return nil, ErrInvalidToken
	}
	return ValidateToken(token, secret)
}

// Account returns the claims RequireLogin or IdentifyUser stored on c.
func Account(c *gin.Context) (*Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*Claims)
	return claims, ok
}
