package model

// EventKind is the closed set of inbound update variants. Everything past
// the classifier operates on these, never on the raw Telegram payload.
type EventKind int

const (
	// EventNone marks an update we do not understand; it is acknowledged
	// to the platform and dropped.
	EventNone EventKind = iota
	EventStart
	EventContact
	EventButton
	EventCommand
	EventText
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventContact:
		return "contact"
	case EventButton:
		return "button"
	case EventCommand:
		return "command"
	case EventText:
		return "text"
	default:
		return "none"
	}
}

// Event is one classified inbound update.
type Event struct {
	ChatID int64
	Kind   EventKind

	// StartToken carries the deep-link context for EventStart ("" without one).
	StartToken string
	// Phone and Name are set for EventContact.
	Phone string
	Name  string
	// Label is the pressed reply-keyboard button for EventButton.
	Label string
	// Command and Args are set for EventCommand ("broadcast", "...").
	Command string
	Args    string
	// Text is the free-form body for EventText.
	Text string
}
