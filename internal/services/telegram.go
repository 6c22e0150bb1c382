package services

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// pollTimeout is the long-poll timeout in seconds for getUpdates
const pollTimeout = 60

type telegramAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	StopReceivingUpdates()
}

// TelegramService long-polls the Bot API and feeds each text message to the bot, one at a time per user
type TelegramService struct {
	api        telegramAPI
	bot        *BotService
	dispatcher *Dispatcher
}

// NewTelegramService connects to the Bot API with token
func NewTelegramService(token string, bot *BotService, dispatcher *Dispatcher) (*TelegramService, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "connect telegram bot api")
	}
	log.Info().Str("username", api.Self.UserName).Msg("🤖 Telegram bot authorized")

	return newTelegramService(api, bot, dispatcher), nil
}

func newTelegramService(api telegramAPI, bot *BotService, dispatcher *Dispatcher) *TelegramService {
	return &TelegramService{
		api:        api,
		bot:        bot,
		dispatcher: dispatcher,
	}
}

// Run polls for updates until ctx is cancelled. Messages already handed to the dispatcher keep running;
// call dispatcher.Wait to drain them.
func (t *TelegramService) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := t.api.GetUpdatesChan(u)

	log.Info().Msg("📡 Polling Telegram for updates")
	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			log.Info().Msg("Telegram polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(ctx, update)
		}
	}
}

func (t *TelegramService) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || msg.Text == "" {
		return
	}

	userID := strconv.FormatInt(msg.From.ID, 10)
	chatID := msg.Chat.ID
	text := msg.Text
	// in-flight answers must finish even while shutting down
	handleCtx := context.WithoutCancel(ctx)

	t.dispatcher.Go(userID, func() {
		reply, err := t.bot.ProcessMessage(handleCtx, userID, text)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("❌ Error processing message")
			reply = MsgGenericError
		}
		if reply == "" {
			return
		}
		if err := t.sendTo(chatID, reply); err != nil {
			log.Error().Err(err).Int64("chat_id", chatID).Msg("❌ Failed to send Telegram reply")
		}
	})
}

// Send delivers text to a private chat. For private chats the chat ID equals the user ID.
func (t *TelegramService) Send(ctx context.Context, userID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid telegram user id %q", userID)
	}
	return t.sendTo(chatID, text)
}

func (t *TelegramService) sendTo(chatID int64, text string) error {
	if _, err := t.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return errors.Wrap(err, "send telegram message")
	}
	return nil
}
