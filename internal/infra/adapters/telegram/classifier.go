package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/infra/i18n"
)

// Classifier turns a raw Telegram update into a typed event. Keyboard labels
// come from the locale file, so the mapping back to canonical actions is built
// from the same translator used to render the keyboards.
type Classifier struct {
	labels map[string]string
}

func NewClassifier(tr *i18n.Translator) *Classifier {
	labels := map[string]string{
		tr.T("btn_location"):      model.ActionLocation,
		tr.T("btn_schedule"):      model.ActionSchedule,
		tr.T("btn_contact_phone"): model.ActionContactPhone,
		tr.T("btn_help"):          model.ActionHelp,
		tr.T("btn_prices"):        model.ActionPrices,
		tr.T("btn_portfolio"):     model.ActionPortfolio,
		tr.T("btn_estimate"):      model.ActionEstimate,
		tr.T("btn_calculator"):    model.ActionCalculator,
		tr.T("btn_stats"):         model.ActionStats,
		tr.T("btn_broadcast"):     model.ActionBroadcast,
		tr.T("btn_pickup_yes"):    model.ActionPickupYes,
		tr.T("btn_pickup_no"):     model.ActionPickupNo,
	}
	return &Classifier{labels: labels}
}

// Classify maps one update to an event. Updates without a message payload
// (edits, channel posts, callback noise) yield EventNone.
func (c *Classifier) Classify(up tgbotapi.Update) model.Event {
	msg := up.Message
	if msg == nil {
		return model.Event{Kind: model.EventNone}
	}

	ev := model.Event{ChatID: msg.Chat.ID}

	if msg.Contact != nil {
		ev.Kind = model.EventContact
		ev.Phone = msg.Contact.PhoneNumber
		ev.Name = strings.TrimSpace(msg.Contact.FirstName + " " + msg.Contact.LastName)
		return ev
	}

	if msg.IsCommand() {
		if msg.Command() == "start" {
			ev.Kind = model.EventStart
			ev.StartToken = msg.CommandArguments()
			return ev
		}
		ev.Kind = model.EventCommand
		ev.Command = msg.Command()
		ev.Args = msg.CommandArguments()
		return ev
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		ev.Kind = model.EventNone
		return ev
	}
	if action, ok := c.labels[text]; ok {
		ev.Kind = model.EventButton
		ev.Label = action
		return ev
	}

	ev.Kind = model.EventText
	ev.Text = text
	return ev
}
