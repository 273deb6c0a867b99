package models

// Video caches metadata of a content-provider video. Rows are immutable
// once written; re-inserting the same id is a no-op.
type Video struct {
	ID        string `xorm:"pk varchar(11) 'id'" json:"videoId"`
	Title     string `xorm:"varchar(64) not null 'title'" json:"title"`
	Channel   string `xorm:"varchar(64) not null 'channel'" json:"channel"`
	Uploaded  string `xorm:"varchar(10) not null 'uploaded'" json:"uploaded"`
	Duration  int64  `xorm:"not null 'duration'" json:"duration"`
	CreatedAt int64  `xorm:"not null 'created_at'" json:"-"`
}

// TableName returns the table name for Video
func (Video) TableName() string {
	return "videos"
}
