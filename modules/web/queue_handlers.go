package web

import (
	"strconv"

	"auxbox/helpers/apierr"
	"auxbox/helpers/logs"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// handleGetQueue returns the caller's queue ordered by position.
func (a *API) handleGetQueue(c *gin.Context) {
	creds := credentials(c)

	entries, err := a.store.List(creds.Session)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, entries)
}

// handleAddQueue appends a video to the queue, broadcasts the new entry
// and auto-starts playback when the queue was empty.
func (a *API) handleAddQueue(c *gin.Context) {
	creds := credentials(c)
	logger := logs.GetLogger().WithFields(logrus.Fields{
		"module":  "web",
		"handler": "handleAddQueue",
		"session": creds.Session,
	})

	videoID := c.Query("id")
	if videoID == "" {
		respondError(c, apierr.BadRequest("bad id value"))
		return
	}

	entry, err := a.store.Append(creds.Session, videoID, c.Query("by"))
	if err != nil {
		logger.WithError(err).Warn("Failed to append to queue")
		respondError(c, err)
		return
	}

	a.hub.Emit(creds.Session, EventItemAdded, entry)

	sess, err := a.registry.Get(creds.Session)
	if err != nil {
		respondError(c, err)
		return
	}

	// First item in an idle session starts playing right away.
	if sess.QueueItemID == nil {
		itemID := entry.ID
		if err := a.registry.SetCurrentItem(creds.Session, &itemID); err != nil {
			respondError(c, err)
			return
		}
		a.hub.Emit(creds.Session, EventCurrentChanged, CurrentChangedPayload{ID: &itemID})
	}

	respondData(c, entry)
}

// handleDelQueue removes a queue item. Removing the current item advances
// playback to the next one by position.
func (a *API) handleDelQueue(c *gin.Context) {
	creds := credentials(c)

	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apierr.BadRequest("bad id value"))
		return
	}

	sess, err := a.registry.Get(creds.Session)
	if err != nil {
		respondError(c, err)
		return
	}

	item, err := a.store.Get(creds.Session, id)
	if err != nil {
		// Removal is idempotent: an unknown id is a no-op, not an error.
		if apiErr := apierr.From(err); apiErr != nil && apiErr.Code == 404 {
			respondData(c, true)
			return
		}
		respondError(c, err)
		return
	}

	if err := a.store.Remove(creds.Session, id); err != nil {
		respondError(c, err)
		return
	}

	a.hub.Emit(creds.Session, EventItemRemoved, ItemRemovedPayload{ID: id})

	if sess.QueueItemID != nil && *sess.QueueItemID == id {
		next, err := a.store.NextAfter(creds.Session, item.Position)
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
	}

	respondData(c, true)
}

// handleMoveQueue reorders a queue item to a new position.
func (a *API) handleMoveQueue(c *gin.Context) {
	creds := credentials(c)

	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apierr.BadRequest("bad id value"))
		return
	}

	pos, err := strconv.ParseInt(c.Query("pos"), 10, 64)
	if err != nil {
		respondError(c, apierr.InvalidArgument("bad position value"))
		return
	}

	if err := a.store.Move(creds.Session, id, pos); err != nil {
		respondError(c, err)
		return
	}

	a.hub.Emit(creds.Session, EventItemMoved, ItemMovedPayload{ID: id, Position: pos})
	respondData(c, true)
}
