package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/domain/ports/adapter"
	"telegram-order-notifier/internal/infra/i18n"
)

var _ LocationUseCase = (*locationUC)(nil)

// LocationUseCase sends the static shop-location package: map pin, entrance
// video, then schedule and phone with a map-open button. No state effect.
type LocationUseCase interface {
	SendLocation(ctx context.Context, chatID int64) error
}

type locationUC struct {
	bot adapter.MessengerAdapter
	tr  *i18n.Translator
	loc model.LocationInfo
	log *zerolog.Logger
}

func NewLocationUseCase(bot adapter.MessengerAdapter, tr *i18n.Translator, loc model.LocationInfo, logger *zerolog.Logger) LocationUseCase {
	return &locationUC{bot: bot, tr: tr, loc: loc, log: logger}
}

func (uc *locationUC) SendLocation(ctx context.Context, chatID int64) error {
	if err := uc.bot.SendLocation(ctx, chatID, uc.loc.Latitude, uc.loc.Longitude); err != nil {
		return err
	}
	if uc.loc.VideoURL != "" {
		if err := uc.bot.SendVideo(ctx, chatID, uc.loc.VideoURL, uc.tr.T("location_video_caption")); err != nil {
			// Visual guidance is best effort; the pin already went out.
			uc.log.Warn().Err(err).Int64("chat_id", chatID).Msg("entrance video send failed")
		}
	}

	text := uc.loc.ScheduleText + "\n\n" + uc.tr.T("contact_phone_line", uc.loc.ContactPhone)
	var opts *adapter.SendOptions
	if uc.loc.MapsURL != "" {
		opts = &adapter.SendOptions{InlineButtons: [][]adapter.InlineButton{
			{{Text: uc.tr.T("location_maps_button"), URL: uc.loc.MapsURL}},
		}}
	}
	return uc.bot.SendMessage(ctx, chatID, text, opts)
}
