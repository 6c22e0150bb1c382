package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// WhatsAppPrefix is the address scheme Twilio uses for WhatsApp numbers
const WhatsAppPrefix = "whatsapp:"

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioService sends WhatsApp replies through the Twilio Messages API
type TwilioService struct {
	api  messageCreator
	from string // e.g. "whatsapp:+14155238886"
}

// NewTwilioService creates a sender for the given account and WhatsApp number
func NewTwilioService(accountSID, authToken, from string) (*TwilioService, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, errors.New("missing Twilio credentials")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioService{
		api:  client.Api,
		from: WithWhatsAppPrefix(from),
	}, nil
}

// Send delivers text to the WhatsApp number to. The number may be given with or without the "whatsapp:" prefix.
func (t *TwilioService) Send(ctx context.Context, to, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(WithWhatsAppPrefix(to))
	params.SetBody(text)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		log.Error().Err(err).Str("to", to).Msg("❌ Failed to send WhatsApp message")
		return errors.Wrap(err, "send whatsapp message")
	}
	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		msg := ""
		if resp.ErrorMessage != nil {
			msg = *resp.ErrorMessage
		}
		return errors.Errorf("twilio error %d: %s", *resp.ErrorCode, msg)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	log.Debug().Str("sid", sid).Str("to", to).Msg("✅ WhatsApp message sent")
	return nil
}

// WithWhatsAppPrefix adds the "whatsapp:" scheme if it is missing
func WithWhatsAppPrefix(number string) string {
	if strings.HasPrefix(number, WhatsAppPrefix) {
		return number
	}
	return WhatsAppPrefix + number
}

// StripWhatsAppPrefix turns "whatsapp:+65..." into "+65..."
func StripWhatsAppPrefix(address string) string {
	return strings.TrimPrefix(address, WhatsAppPrefix)
}
