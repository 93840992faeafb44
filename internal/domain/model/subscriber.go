package model

import (
	"strings"
	"time"

	"telegram-order-notifier/internal/domain"
)

// Subscriber is a directory entry: one phone number mapped to the Telegram
// chat that shared it. Phone is the natural key; re-sharing the same phone
// from another chat overwrites the mapping (last share wins).
type Subscriber struct {
	Phone        string
	ChatID       int64
	Name         string
	RegisteredAt time.Time
}

func NewSubscriber(phone string, chatID int64, name string) (*Subscriber, error) {
	p, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "Client"
	}
	return &Subscriber{
		Phone:        p,
		ChatID:       chatID,
		Name:         name,
		RegisteredAt: time.Now(),
	}, nil
}

// NormalizePhone canonicalizes a client-supplied phone number: formatting
// characters are stripped and a leading "+" is enforced, so that the same
// number always hits the same directory row.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '+':
			// dropped; "+" is re-added below
		default:
			return "", domain.ErrInvalidPhone
		}
	}
	digits := b.String()
	if len(digits) < 7 || len(digits) > 15 {
		return "", domain.ErrInvalidPhone
	}
	return "+" + digits, nil
}
