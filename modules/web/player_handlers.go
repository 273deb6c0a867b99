package web

import (
	"strconv"

	"auxbox/helpers/apierr"
	"auxbox/helpers/logs"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// handleTogglePlay sets the playing/paused flag. Only the host persists
// it; lower ranks get a broadcast-only echo when the emit flag is present,
// so their intent still reaches the host's player.
func (a *API) handleTogglePlay(c *gin.Context) {
	creds := credentials(c)
	logger := logs.GetLogger().WithFields(logrus.Fields{
		"module":  "web",
		"handler": "handleTogglePlay",
		"session": creds.Session,
	})

	q := c.Query("q")
	if q != "0" && q != "1" {
		respondError(c, apierr.BadRequest("bad q value"))
		return
	}
	isPlaying := q == "1"
	_, echo := c.GetQuery("emit")

	persisted, err := a.registry.SetPlaying(creds.Session, isPlaying, creds.Rank)
	if err != nil {
		respondError(c, err)
		return
	}

	if persisted || echo {
		a.hub.Emit(creds.Session, EventPlayingChanged, PlayingChangedPayload{IsPlaying: isPlaying})
	}

	logger.WithFields(logrus.Fields{
		"is_playing": isPlaying,
		"persisted":  persisted,
	}).Info("✓ Playing state handled")

	respondData(c, gin.H{"isPlaying": isPlaying, "persisted": persisted})
}

// handleAdvance moves the current item to the next one in play order. A
// null result means the queue ran out, which is a valid terminal state.
func (a *API) handleAdvance(c *gin.Context) {
	creds := credentials(c)

	next, err := a.store.Next(creds.Session)
	if err != nil {
		respondError(c, err)
		return
	}

	var nextID *int64
	if next != nil {
		nextID = &next.ID
	}
	if err := a.registry.SetCurrentItem(creds.Session, nextID); err != nil {
		respondError(c, err)
		return
	}

	a.hub.Emit(creds.Session, EventCurrentChanged, CurrentChangedPayload{ID: nextID})
	respondData(c, nextID)
}

// handleJump sets the current item directly to the given queue item.
func (a *API) handleJump(c *gin.Context) {
	creds := credentials(c)

	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apierr.BadRequest("bad id value"))
		return
	}

	item, err := a.store.Get(creds.Session, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := a.registry.SetCurrentItem(creds.Session, &item.ID); err != nil {
		respondError(c, err)
		return
	}

	a.hub.Emit(creds.Session, EventCurrentChanged, CurrentChangedPayload{ID: &item.ID})
	respondData(c, item.ID)
}
