package web

import (
	"encoding/base64"
	"net/url"

	"auxbox/helpers/apierr"
	"auxbox/helpers/logs"
	"auxbox/modules/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
)

// handleStart creates a new session and returns the host token.
func (a *API) handleStart(c *gin.Context) {
	logger := logs.GetLogger().WithFields(logrus.Fields{
		"module":    "web",
		"handler":   "handleStart",
		"client_ip": c.ClientIP(),
	})

	sess, err := a.registry.Create()
	if err != nil {
		logger.WithError(err).Error("Failed to start session")
		respondError(c, err)
		return
	}

	logger.WithField("session", sess.ID).Info("✓ Session started")
	respondData(c, a.codec.SignCredentials(sess.ID, session.RankHost))
}

// handleJoin redeems an invite token into a guest token.
func (a *API) handleJoin(c *gin.Context) {
	logger := logs.GetLogger().WithFields(logrus.Fields{
		"module":    "web",
		"handler":   "handleJoin",
		"client_ip": c.ClientIP(),
	})

	invite := c.Query("invite")
	if invite == "" {
		respondError(c, apierr.BadRequest("bad request"))
		return
	}

	inv, err := a.codec.VerifyInvite(invite)
	if err != nil {
		logger.WithError(err).Warn("Invite rejected")
		respondError(c, err)
		return
	}

	if _, err := a.registry.Get(inv.Session); err != nil {
		respondError(c, err)
		return
	}

	logger.WithField("session", inv.Session).Info("✓ Guest joined")
	respondData(c, a.codec.SignCredentials(inv.Session, session.RankGuest))
}

// handleGetSession returns the caller's session snapshot.
func (a *API) handleGetSession(c *gin.Context) {
	creds := credentials(c)

	sess, err := a.registry.Get(creds.Session)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, gin.H{
		"session":   creds.Session,
		"rank":      creds.Rank,
		"queueId":   sess.QueueItemID,
		"isPlaying": sess.IsPlaying,
	})
}

// handleEndSession destroys the session; queue rows cascade away. Host only.
func (a *API) handleEndSession(c *gin.Context) {
	creds := credentials(c)

	if !creds.Rank.CanEndSession() {
		respondError(c, apierr.Unauthorized("unauthorized"))
		return
	}

	if err := a.registry.Destroy(creds.Session); err != nil {
		respondError(c, err)
		return
	}

	respondData(c, true)
}

// handleQr renders a join URL with a fresh invite token as a scannable
// QR image, base64-encoded PNG.
func (a *API) handleQr(c *gin.Context) {
	creds := credentials(c)

	token := a.codec.SignInvite(creds.Session)
	joinURL := a.publicURL + "/#" + url.QueryEscape(token)

	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, base64.StdEncoding.EncodeToString(png))
}
