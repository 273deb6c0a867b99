package session

import (
	"fmt"
	"time"

	"auxbox/helpers/apierr"
	"auxbox/helpers/logs"
	"auxbox/modules/session/models"

	"github.com/sirupsen/logrus"
	"xorm.io/xorm"
)

// Store is the ordered queue of a session. Item ids and positions are both
// drawn from the session's sequence counter on append; Move keeps positions
// unique by shifting the rows between the old and new slot inside one
// transaction.
type Store struct {
	db     *xorm.Engine
	logger *logrus.Entry
}

func NewStore(db *xorm.Engine) *Store {
	return &Store{
		db:     db,
		logger: logs.GetLogger().WithField("module", "queue"),
	}
}

// List returns the session's queue ordered by position, denormalized with
// video attributes.
func (s *Store) List(sessionID string) ([]models.QueueEntry, error) {
	entries := []models.QueueEntry{}
	err := s.db.SQL(`
		SELECT q.id, q.video_id, q.position, q.added_by, q.created_at,
		       v.title, v.channel, v.uploaded, v.duration
		FROM queue_items q
		JOIN videos v ON v.id = q.video_id
		WHERE q.session_id = ?
		ORDER BY q.position ASC`, sessionID).Find(&entries)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch queue")
		return nil, fmt.Errorf("failed to fetch queue: %w", err)
	}
	return entries, nil
}

// Get fetches a single queue item belonging to the session.
func (s *Store) Get(sessionID string, id int64) (*models.QueueItem, error) {
	var item models.QueueItem
	has, err := s.db.Where("session_id = ? AND id = ?", sessionID, id).Get(&item)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch queue item")
		return nil, fmt.Errorf("failed to fetch queue item: %w", err)
	}
	if !has {
		return nil, apierr.NotFound("queue item not found")
	}
	return &item, nil
}

// Append adds a video at the tail of the session's queue. The sequence
// bump and the insert run in one transaction so concurrent appends to the
// same session always get distinct ids and positions.
func (s *Store) Append(sessionID, videoID, addedBy string) (*models.QueueEntry, error) {
	var video models.Video
	has, err := s.db.Where("id = ?", videoID).Get(&video)
	if err != nil {
		s.logger.WithError(err).Error("Failed to look up video")
		return nil, fmt.Errorf("failed to look up video: %w", err)
	}
	if !has {
		return nil, apierr.NotFound("video not found")
	}

	tx := s.db.NewSession()
	defer tx.Close()
	if err := tx.Begin(); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.Exec("UPDATE sessions SET sequence = sequence + 1 WHERE id = ?", sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to bump sequence: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, apierr.NotFound("session not found")
	}

	var sequence int64
	if _, err := tx.SQL("SELECT sequence FROM sessions WHERE id = ?", sessionID).Get(&sequence); err != nil {
		return nil, fmt.Errorf("failed to read sequence: %w", err)
	}

	item := models.QueueItem{
		SessionID: sessionID,
		ID:        sequence,
		VideoID:   videoID,
		Position:  sequence,
		AddedBy:   addedBy,
		CreatedAt: time.Now().Unix(),
	}
	if _, err := tx.Insert(&item); err != nil {
		return nil, fmt.Errorf("failed to insert queue item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit append: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session":  sessionID,
		"item":     item.ID,
		"video":    videoID,
		"position": item.Position,
	}).Info("✓ Video appended to queue")

	return &models.QueueEntry{
		ID:        item.ID,
		VideoID:   item.VideoID,
		Position:  item.Position,
		AddedBy:   item.AddedBy,
		CreatedAt: item.CreatedAt,
		Title:     video.Title,
		Channel:   video.Channel,
		Uploaded:  video.Uploaded,
		Duration:  video.Duration,
	}, nil
}

// Remove deletes a queue item. Remaining items keep their positions (the
// deleted slot stays vacant) and removing an id that does not exist is a
// silent no-op.
func (s *Store) Remove(sessionID string, id int64) error {
	deleted, err := s.db.Where("session_id = ? AND id = ?", sessionID, id).Delete(&models.QueueItem{})
	if err != nil {
		s.logger.WithError(err).Error("Failed to remove queue item")
		return fmt.Errorf("failed to remove queue item: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session": sessionID,
		"item":    id,
		"deleted": deleted,
	}).Info("✓ Queue item removed")
	return nil
}

// Move reassigns an item to targetPos and shifts every item strictly
// between its old and new slot by one, all inside a single transaction so
// concurrent readers never observe a half-applied reorder.
func (s *Store) Move(sessionID string, id, targetPos int64) error {
	if targetPos < 1 {
		return apierr.InvalidArgument("bad position value")
	}

	tx := s.db.NewSession()
	defer tx.Close()
	if err := tx.Begin(); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	var item models.QueueItem
	has, err := tx.Where("session_id = ? AND id = ?", sessionID, id).Get(&item)
	if err != nil {
		return fmt.Errorf("failed to fetch queue item: %w", err)
	}
	if !has {
		return apierr.NotFound("queue item not found")
	}

	if targetPos == item.Position {
		return nil
	}

	// Half-open ranges keep the moved row out of the shift.
	if targetPos < item.Position {
		_, err = tx.Exec(`UPDATE queue_items SET position = position + 1
			WHERE session_id = ? AND position >= ? AND position < ?`,
			sessionID, targetPos, item.Position)
	} else {
		_, err = tx.Exec(`UPDATE queue_items SET position = position - 1
			WHERE session_id = ? AND position > ? AND position <= ?`,
			sessionID, item.Position, targetPos)
	}
	if err != nil {
		return fmt.Errorf("failed to shift positions: %w", err)
	}

	if _, err := tx.Exec("UPDATE queue_items SET position = ? WHERE session_id = ? AND id = ?",
		targetPos, sessionID, id); err != nil {
		return fmt.Errorf("failed to set position: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit move: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session": sessionID,
		"item":    id,
		"from":    item.Position,
		"to":      targetPos,
	}).Info("✓ Queue item moved")
	return nil
}

// NextAfter returns the queue item with the smallest position strictly
// greater than pos, or nil at the end of the queue.
func (s *Store) NextAfter(sessionID string, pos int64) (*models.QueueItem, error) {
	var item models.QueueItem
	has, err := s.db.Where("session_id = ? AND position > ?", sessionID, pos).
		OrderBy("position ASC").
		Get(&item)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch next queue item")
		return nil, fmt.Errorf("failed to fetch next queue item: %w", err)
	}
	if !has {
		return nil, nil
	}
	return &item, nil
}

// Next returns the item following the session's current one in play order,
// or nil when the queue is exhausted.
func (s *Store) Next(sessionID string) (*models.QueueItem, error) {
	var sess models.Session
	has, err := s.db.Where("id = ?", sessionID).Get(&sess)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if !has {
		return nil, apierr.NotFound("session not found")
	}
	if sess.QueueItemID == nil {
		return nil, apierr.NotFound("queue item not found")
	}

	current, err := s.Get(sessionID, *sess.QueueItemID)
	if err != nil {
		return nil, err
	}
	return s.NextAfter(sessionID, current.Position)
}
