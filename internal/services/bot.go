package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Chat commands
const (
	CommandStart      = "start"
	CommandCancel     = "cancel"
	CommandViewOrders = "vieworders"
)

// maxViewOrders caps the /vieworders argument so one reply stays readable
const maxViewOrders = 50

// Sender delivers an outbound message to a user of one transport
type Sender interface {
	Send(ctx context.Context, userID, text string) error
}

// BotService routes inbound chat messages: commands to the engine or the order query, plain text to the
// current question. It is shared by every transport.
type BotService struct {
	engine  *ConversationEngine
	query   *OrderQuery
	isAdmin func(userID string) bool
}

// NewBotService creates the router. A nil isAdmin lets everyone view orders.
func NewBotService(engine *ConversationEngine, query *OrderQuery, isAdmin func(userID string) bool) *BotService {
	if isAdmin == nil {
		isAdmin = func(string) bool { return true }
	}
	return &BotService{
		engine:  engine,
		query:   query,
		isAdmin: isAdmin,
	}
}

// ProcessMessage handles one inbound message and returns the reply text. An empty reply means nothing
// should be sent.
func (b *BotService) ProcessMessage(ctx context.Context, userID, message string) (string, error) {
	if cmd, args, ok := ParseCommand(message); ok {
		log.Debug().Str("user_id", userID).Str("command", cmd).Msg("Processing command")
		return b.handleCommand(ctx, userID, cmd, args), nil
	}

	out, err := b.engine.Handle(ctx, userID, message)
	if errors.Is(err, ErrNoSession) {
		return MsgNoSession, nil
	}
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (b *BotService) handleCommand(ctx context.Context, userID, cmd, args string) string {
	switch cmd {
	case CommandStart:
		return b.engine.Start(userID)
	case CommandCancel:
		return b.engine.Cancel(userID)
	case CommandViewOrders:
		return b.viewOrders(ctx, userID, args)
	default:
		log.Debug().Str("user_id", userID).Str("command", cmd).Msg("Ignoring unknown command")
		return ""
	}
}

func (b *BotService) viewOrders(ctx context.Context, userID, args string) string {
	if !b.isAdmin(userID) {
		log.Warn().Str("user_id", userID).Msg("⛔ Non-admin tried to view orders")
		return MsgNotAllowed
	}

	n := DefaultLastOrders
	if v, err := strconv.Atoi(strings.TrimSpace(args)); err == nil && v > 0 {
		n = v
	}
	if n > maxViewOrders {
		n = maxViewOrders
	}

	records, err := b.query.LastN(ctx, n)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read orders")
		return MsgQueryFailed
	}
	return FormatOrders(n, records)
}

// ParseCommand splits "/cmd@botname args" into ("cmd", "args"). Commands are case-insensitive.
func ParseCommand(text string) (cmd, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") || len(text) == 1 {
		return "", "", false
	}

	head, rest, _ := strings.Cut(text[1:], " ")
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}
