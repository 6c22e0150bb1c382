package services

import (
	"context"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"github.com/maoshanman/durian-order-bot/internal/models"
	"github.com/maoshanman/durian-order-bot/internal/storage"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeTelegram struct {
	updates chan tgbotapi.Update
	mu      sync.Mutex
	sent    []sentMessage
	stopped bool
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{updates: make(chan tgbotapi.Update, 32)}
}

func (f *fakeTelegram) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg := c.(tgbotapi.MessageConfig)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID: msg.ChatID, text: msg.Text})
	return tgbotapi.Message{}, nil
}

func (f *fakeTelegram) StopReceivingUpdates() {
	f.stopped = true
}

func (f *fakeTelegram) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: userID},
			Text: text,
		},
	}
}

func TestTelegramService_RunRepliesInOrder(t *testing.T) {
	store := storage.NewMemoryStore()
	api := newFakeTelegram()
	d := NewDispatcher(4)
	svc := newTelegramService(api, newTestBot(store), d)

	api.updates <- textUpdate(7, "/start")
	for _, answer := range exampleAnswers {
		api.updates <- textUpdate(7, answer)
	}
	api.updates <- tgbotapi.Update{}
	close(api.updates)

	require.NoError(t, svc.Run(context.Background()))
	d.Wait()

	sent := api.messages()
	require.Len(t, sent, len(exampleAnswers)+1)
	require.Equal(t, Prompts[models.StepAwaitName], sent[0].text)
	require.Equal(t, Prompts[models.StepAwaitPhone], sent[1].text)
	require.Equal(t, MsgOrderReceived, sent[len(sent)-1].text)
	for _, m := range sent {
		require.Equal(t, int64(7), m.chatID)
	}
	require.Equal(t, 1, store.Len())
}

func TestTelegramService_StopsOnCancel(t *testing.T) {
	api := newFakeTelegram()
	svc := newTelegramService(api, newTestBot(storage.NewMemoryStore()), NewDispatcher(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, svc.Run(ctx))
	require.True(t, api.stopped)
}

func TestTelegramService_SkipsEmptyReplies(t *testing.T) {
	api := newFakeTelegram()
	d := NewDispatcher(1)
	svc := newTelegramService(api, newTestBot(storage.NewMemoryStore()), d)

	svc.handleUpdate(context.Background(), textUpdate(9, "/unknown"))
	d.Wait()

	require.Empty(t, api.messages())
}

func TestTelegramService_Send(t *testing.T) {
	api := newFakeTelegram()
	svc := newTelegramService(api, nil, NewDispatcher(1))

	require.NoError(t, svc.Send(context.Background(), "123", "hi"))
	require.Error(t, svc.Send(context.Background(), "not-a-number", "hi"))
	require.Equal(t, []sentMessage{{chatID: 123, text: "hi"}}, api.messages())
}
