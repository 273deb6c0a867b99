package web

// EventKind is the closed set of push events fanned out to a session's
// connections. Clients dispatch on the kind; each kind carries exactly one
// payload type.
type EventKind string

const (
	// EventItemAdded carries a models.QueueEntry.
	EventItemAdded EventKind = "itemAdded"
	// EventItemRemoved carries an ItemRemovedPayload.
	EventItemRemoved EventKind = "itemRemoved"
	// EventItemMoved carries an ItemMovedPayload.
	EventItemMoved EventKind = "itemMoved"
	// EventCurrentChanged carries a CurrentChangedPayload.
	EventCurrentChanged EventKind = "currentChanged"
	// EventPlayingChanged carries a PlayingChangedPayload.
	EventPlayingChanged EventKind = "playingChanged"
)

// Envelope is the wire format of every push event.
type Envelope struct {
	Event   EventKind   `json:"event"`
	Payload interface{} `json:"payload"`
}

type ItemRemovedPayload struct {
	ID int64 `json:"id"`
}

type ItemMovedPayload struct {
	ID       int64 `json:"id"`
	Position int64 `json:"position"`
}

// CurrentChangedPayload announces the new current item; ID is null when
// the queue ran out.
type CurrentChangedPayload struct {
	ID *int64 `json:"id"`
}

type PlayingChangedPayload struct {
	IsPlaying bool `json:"isPlaying"`
}
