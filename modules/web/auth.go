package web

import (
	"strings"

	"auxbox/helpers/apierr"
	"auxbox/modules/session"

	"github.com/gin-gonic/gin"
)

const credsKey = "credentials"

// authorize gates every stateful endpoint behind a `Basic <token>` header.
// Verification covers signature and the 24h validity window; rank checks
// stay with the individual handlers.
func (a *API) authorize(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		respondError(c, apierr.Unauthorized("unauthorized"))
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Basic" {
		respondError(c, apierr.BadRequest("invalid token type"))
		return
	}

	creds, err := a.codec.VerifyCredentials(parts[1])
	if err != nil {
		respondError(c, err)
		return
	}

	c.Set(credsKey, creds)
	c.Next()
}

// credentials returns the verified token payload set by authorize.
func credentials(c *gin.Context) *session.Credentials {
	return c.MustGet(credsKey).(*session.Credentials)
}
