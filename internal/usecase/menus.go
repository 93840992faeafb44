package usecase

import (
	"telegram-order-notifier/internal/domain/ports/adapter"
	"telegram-order-notifier/internal/infra/i18n"
)

// Menus builds the reply keyboards once from the locale file. Regular chats
// must never see the admin keyboard or any of its entries.
type Menus struct {
	guest  *adapter.SendOptions
	member *adapter.SendOptions
	admin  *adapter.SendOptions
	pickup *adapter.SendOptions
	rating *adapter.SendOptions
}

func NewMenus(tr *i18n.Translator) *Menus {
	row := func(btns ...adapter.ReplyButton) []adapter.ReplyButton { return btns }
	txt := func(key string) adapter.ReplyButton { return adapter.ReplyButton{Text: tr.T(key)} }

	memberRows := [][]adapter.ReplyButton{
		row(txt("btn_estimate")),
		row(txt("btn_prices"), txt("btn_portfolio")),
		row(txt("btn_location")),
		row(txt("btn_schedule"), txt("btn_contact_phone")),
		row(txt("btn_help")),
	}
	guestRows := append([][]adapter.ReplyButton{
		row(adapter.ReplyButton{Text: tr.T("btn_share_phone"), RequestContact: true}),
	}, memberRows...)

	return &Menus{
		guest:  &adapter.SendOptions{ReplyKeyboard: guestRows, OneTime: true},
		member: &adapter.SendOptions{ReplyKeyboard: memberRows},
		admin: &adapter.SendOptions{ReplyKeyboard: [][]adapter.ReplyButton{
			row(txt("btn_stats")),
			row(txt("btn_calculator")),
			row(txt("btn_broadcast")),
		}},
		pickup: &adapter.SendOptions{ReplyKeyboard: [][]adapter.ReplyButton{
			row(txt("btn_pickup_yes")),
			row(txt("btn_pickup_no")),
		}},
		rating: &adapter.SendOptions{
			ReplyKeyboard: [][]adapter.ReplyButton{row(
				adapter.ReplyButton{Text: "1"},
				adapter.ReplyButton{Text: "2"},
				adapter.ReplyButton{Text: "3"},
				adapter.ReplyButton{Text: "4"},
				adapter.ReplyButton{Text: "5"},
			)},
			OneTime: true,
		},
	}
}

func (m *Menus) Guest() *adapter.SendOptions  { return m.guest }
func (m *Menus) Member() *adapter.SendOptions { return m.member }
func (m *Menus) Admin() *adapter.SendOptions  { return m.admin }
func (m *Menus) Pickup() *adapter.SendOptions { return m.pickup }
func (m *Menus) Rating() *adapter.SendOptions { return m.rating }

// For picks the keyboard for a chat: admins always get the admin keyboard,
// everyone else gets member or guest depending on registration.
func (m *Menus) For(admin, registered bool) *adapter.SendOptions {
	switch {
	case admin:
		return m.admin
	case registered:
		return m.member
	default:
		return m.guest
	}
}
