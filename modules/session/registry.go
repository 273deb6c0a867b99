package session

import (
	"fmt"
	"time"

	"auxbox/helpers/apierr"
	"auxbox/helpers/logs"
	"auxbox/modules/session/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"xorm.io/xorm"
)

// Registry manages session rows: lifecycle, the currently playing item and
// the playing/paused flag.
type Registry struct {
	db     *xorm.Engine
	logger *logrus.Entry
}

func NewRegistry(db *xorm.Engine) *Registry {
	return &Registry{
		db:     db,
		logger: logs.GetLogger().WithField("module", "session"),
	}
}

// Create inserts a new session with default state and returns it.
func (r *Registry) Create() (*models.Session, error) {
	sess := &models.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().Unix(),
	}

	if _, err := r.db.Insert(sess); err != nil {
		r.logger.WithError(err).Error("Failed to create session")
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	r.logger.WithField("session", sess.ID).Info("✓ Session created")
	return sess, nil
}

// Get fetches a session row by id.
func (r *Registry) Get(sessionID string) (*models.Session, error) {
	var sess models.Session
	has, err := r.db.Where("id = ?", sessionID).Get(&sess)
	if err != nil {
		r.logger.WithError(err).Error("Failed to fetch session")
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if !has {
		return nil, apierr.NotFound("session not found")
	}
	return &sess, nil
}

// SetCurrentItem points the session at the queue item currently playing.
// itemID may be nil when nothing is queued or the queue ran out.
func (r *Registry) SetCurrentItem(sessionID string, itemID *int64) error {
	_, err := r.db.Exec("UPDATE sessions SET queue_item_id = ? WHERE id = ?", itemID, sessionID)
	if err != nil {
		r.logger.WithError(err).Error("Failed to set current item")
		return fmt.Errorf("failed to set current item: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"session": sessionID,
		"item":    itemID,
	}).Debug("Current item updated")
	return nil
}

// SetPlaying persists the playing/paused flag if the requester's rank has
// playback authority. Returns whether the flag was actually persisted;
// callers decide separately whether to echo the intent to the party.
func (r *Registry) SetPlaying(sessionID string, isPlaying bool, rank Rank) (bool, error) {
	if !rank.CanControlPlayback() {
		r.logger.WithFields(logrus.Fields{
			"session": sessionID,
			"rank":    rank,
		}).Debug("Playback state change not persisted, rank lacks authority")
		return false, nil
	}

	if _, err := r.db.Exec("UPDATE sessions SET is_playing = ? WHERE id = ?", isPlaying, sessionID); err != nil {
		r.logger.WithError(err).Error("Failed to set playing state")
		return false, fmt.Errorf("failed to set playing state: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"session":    sessionID,
		"is_playing": isPlaying,
	}).Info("✓ Playing state persisted")
	return true, nil
}

// Destroy deletes the session. Its queue rows go with it via the foreign
// key cascade.
func (r *Registry) Destroy(sessionID string) error {
	if _, err := r.db.Where("id = ?", sessionID).Delete(&models.Session{}); err != nil {
		r.logger.WithError(err).Error("Failed to destroy session")
		return fmt.Errorf("failed to destroy session: %w", err)
	}

	r.logger.WithField("session", sessionID).Info("✓ Session destroyed")
	return nil
}
