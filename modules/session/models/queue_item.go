package models

// QueueItem is one enqueued video within a session's ordered playlist.
// Both ID and Position are assigned from the session's sequence counter on
// insert, so ids are unique within the session and new items land at the
// tail of the play order.
type QueueItem struct {
	SessionID string `xorm:"pk varchar(36) 'session_id'" json:"-"`
	ID        int64  `xorm:"pk 'id'" json:"id"`
	VideoID   string `xorm:"varchar(11) not null 'video_id'" json:"videoId"`
	Position  int64  `xorm:"not null 'position'" json:"position"`
	AddedBy   string `xorm:"varchar(32) not null default '' 'added_by'" json:"addedBy"`
	CreatedAt int64  `xorm:"not null 'created_at'" json:"createdAt"`
}

// TableName returns the table name for QueueItem
func (QueueItem) TableName() string {
	return "queue_items"
}

// QueueEntry is a queue item denormalized with its video attributes, as
// returned by queue listings and the itemAdded broadcast.
type QueueEntry struct {
	ID        int64  `xorm:"'id'" json:"id"`
	VideoID   string `xorm:"'video_id'" json:"videoId"`
	Position  int64  `xorm:"'position'" json:"position"`
	AddedBy   string `xorm:"'added_by'" json:"addedBy"`
	CreatedAt int64  `xorm:"'created_at'" json:"createdAt"`
	Title     string `xorm:"'title'" json:"title"`
	Channel   string `xorm:"'channel'" json:"channel"`
	Uploaded  string `xorm:"'uploaded'" json:"uploaded"`
	Duration  int64  `xorm:"'duration'" json:"duration"`
}
