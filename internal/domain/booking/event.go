package booking

// EventType is the kind of row change carried by the feed.
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event is a row-level change record: the new row plus, for updates,
// the row as it was before the write.
type Event struct {
	Type    EventType `json:"type"`
	Booking *Booking  `json:"booking"`
	Old     *Booking  `json:"old,omitempty"`
}
