package adapter

import "context"

// ReplyButton is one key of a reply keyboard. RequestContact asks the client
// to share its phone number with a single tap.
type ReplyButton struct {
	Text           string
	RequestContact bool
}

type InlineButton struct {
	Text string
	URL  string
}

// SendOptions carries the optional trimmings of one outbound message.
type SendOptions struct {
	ReplyKeyboard [][]ReplyButton
	InlineButtons [][]InlineButton
	OneTime       bool
	Markdown      bool
}

// MessengerAdapter is the outbound transport to the chat platform. Every call
// is a single attempt; retry policy belongs to the implementation, not the
// callers.
type MessengerAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) error
	SendLocation(ctx context.Context, chatID int64, latitude, longitude float64) error
	SendVideo(ctx context.Context, chatID int64, videoURL, caption string) error
}
