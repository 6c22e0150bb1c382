package services

import (
	"context"
	"errors"
	"testing"

	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	params []*twilioApi.CreateMessageParams
	resp   *twilioApi.ApiV2010Message
	err    error
}

func (f *fakeCreator) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestTwilioService_Send(t *testing.T) {
	sid := "SM123"
	api := &fakeCreator{resp: &twilioApi.ApiV2010Message{Sid: &sid}}
	svc := &TwilioService{api: api, from: "whatsapp:+14155238886"}

	require.NoError(t, svc.Send(context.Background(), "+6591234567", "hello"))
	require.Len(t, api.params, 1)
	require.Equal(t, "whatsapp:+6591234567", *api.params[0].To)
	require.Equal(t, "whatsapp:+14155238886", *api.params[0].From)
	require.Equal(t, "hello", *api.params[0].Body)
}

func TestTwilioService_SendErrors(t *testing.T) {
	svc := &TwilioService{api: &fakeCreator{err: errors.New("unreachable")}, from: "whatsapp:+1"}
	require.Error(t, svc.Send(context.Background(), "+65", "x"))

	code, msg := 63016, "outside the allowed window"
	svc = &TwilioService{api: &fakeCreator{resp: &twilioApi.ApiV2010Message{ErrorCode: &code, ErrorMessage: &msg}}, from: "whatsapp:+1"}
	err := svc.Send(context.Background(), "+65", "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "63016")
}

func TestNewTwilioService_RequiresCredentials(t *testing.T) {
	_, err := NewTwilioService("", "token", "+1")
	require.Error(t, err)

	svc, err := NewTwilioService("AC123", "token", "+14155238886")
	require.NoError(t, err)
	require.Equal(t, "whatsapp:+14155238886", svc.from)
}

func TestWhatsAppPrefix(t *testing.T) {
	require.Equal(t, "whatsapp:+65", WithWhatsAppPrefix("+65"))
	require.Equal(t, "whatsapp:+65", WithWhatsAppPrefix("whatsapp:+65"))
	require.Equal(t, "+65", StripWhatsAppPrefix("whatsapp:+65"))
	require.Equal(t, "+65", StripWhatsAppPrefix("+65"))
}
