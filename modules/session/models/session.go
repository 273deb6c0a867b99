package models

// Session is one shared listening party. QueueItemID points at the queue
// item currently playing (nil when nothing has been queued yet), and
// Sequence is the monotonic counter queue item ids are drawn from.
type Session struct {
	ID          string `xorm:"pk varchar(36) 'id'" json:"id"`
	QueueItemID *int64 `xorm:"null 'queue_item_id'" json:"queueId"`
	IsPlaying   bool   `xorm:"not null default 0 'is_playing'" json:"isPlaying"`
	Sequence    int64  `xorm:"not null default 0 'sequence'" json:"-"`
	CreatedAt   int64  `xorm:"not null 'created_at'" json:"createdAt"`
}

// TableName returns the table name for Session
func (Session) TableName() string {
	return "sessions"
}
