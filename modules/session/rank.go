package session

// Rank is the capability level a token grants within a session. The host
// gets rank 0 when the session starts; everyone redeeming an invite gets
// RankGuest. Authority checks live here so every handler consults the same
// policy.
type Rank int

const (
	RankHost       Rank = 0
	RankController Rank = 1
	RankDisplay    Rank = 2
	RankGuest      Rank = 3
)

// CanControlPlayback reports whether this rank may persist the session's
// playing/paused flag. Lower-authority ranks may still request a broadcast
// echo of their intent, but never a state write.
func (r Rank) CanControlPlayback() bool {
	return r == RankHost
}

// CanEndSession reports whether this rank may destroy the session.
func (r Rank) CanEndSession() bool {
	return r == RankHost
}
