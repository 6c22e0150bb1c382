package services

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/maoshanman/durian-order-bot/internal/models"
)

// transition is what accepting an answer in a step does: store it under field and move to next
type transition struct {
	field models.Field
	next  models.Step
}

// transitions enumerates every forward edge of the order conversation
var transitions = map[models.Step]transition{
	models.StepAwaitName:    {field: models.FieldName, next: models.StepAwaitPhone},
	models.StepAwaitPhone:   {field: models.FieldPhone, next: models.StepAwaitDurian},
	models.StepAwaitDurian:  {field: models.FieldDurian, next: models.StepAwaitQty},
	models.StepAwaitQty:     {field: models.FieldQty, next: models.StepAwaitPacking},
	models.StepAwaitPacking: {field: models.FieldPacking, next: models.StepAwaitAddress},
	models.StepAwaitAddress: {field: models.FieldAddress, next: models.StepAwaitDate},
	models.StepAwaitDate:    {field: models.FieldDeliveryDate, next: models.StepAwaitTime},
	models.StepAwaitTime:    {field: models.FieldDeliveryTime, next: models.StepComplete},
}

// Outcome describes what one inbound answer did to the conversation
type Outcome struct {
	Reply     string
	From      models.Step
	To        models.Step
	Rejected  bool
	Completed bool
	Record    *models.OrderRecord
	Err       error // *ValidationError on rejection, *SinkError when saving failed
}

// ConversationEngine drives one user at a time through the fixed order questions
type ConversationEngine struct {
	sessions  *SessionStore
	validator *FieldValidator
	sink      OrderSink
}

// NewConversationEngine wires the engine to its collaborators
func NewConversationEngine(sessions *SessionStore, validator *FieldValidator, sink OrderSink) *ConversationEngine {
	return &ConversationEngine{
		sessions:  sessions,
		validator: validator,
		sink:      sink,
	}
}

// Start discards any session the user has and begins a new one at the name question
func (e *ConversationEngine) Start(userID string) string {
	replaced := e.sessions.Get(userID) != nil
	e.sessions.Put(userID, e.sessions.NewSession(userID))

	log.Info().Str("user_id", userID).Bool("replaced", replaced).Msg("🆕 Order session started")
	return Prompts[models.StepAwaitName]
}

// Cancel drops the user's session, if any. No record is written.
func (e *ConversationEngine) Cancel(userID string) string {
	existed := e.sessions.Delete(userID)

	log.Info().Str("user_id", userID).Bool("had_session", existed).Msg("Order session cancelled")
	return MsgCancelled
}

// Handle applies one plain-text answer. It returns ErrNoSession when the user has no order in progress;
// validation and sink failures are reported in the Outcome, not as an error.
func (e *ConversationEngine) Handle(ctx context.Context, userID, text string) (Outcome, error) {
	session := e.sessions.Get(userID)
	if session == nil {
		return Outcome{}, ErrNoSession
	}

	tr, ok := transitions[session.Step]
	if !ok {
		e.sessions.Delete(userID)
		return Outcome{}, errors.Errorf("session for %s is in non-answerable step %s", userID, session.Step)
	}

	out := Outcome{From: session.Step, To: session.Step}

	if err := e.validator.Validate(tr.field, text); err != nil {
		e.sessions.Touch(userID)
		out.Rejected = true
		out.Err = err
		out.Reply = Prompts[session.Step]
		if ve, ok := err.(*ValidationError); ok {
			out.Reply = ve.Reason
		}
		log.Debug().Str("user_id", userID).Str("step", session.Step.String()).Msg("Answer rejected")
		return out, nil
	}

	session.Answers[tr.field] = text
	session.Step = tr.next
	out.To = tr.next

	log.Debug().Str("user_id", userID).Str("from", out.From.String()).Str("to", out.To.String()).Msg("Step advanced")

	if tr.next != models.StepComplete {
		e.sessions.Put(userID, session)
		out.Reply = Prompts[tr.next]
		return out, nil
	}

	return e.complete(ctx, userID, session, out), nil
}

// complete hands the answers to the sink outside any SessionStore lock, then tears the session down
// whatever the sink reported.
func (e *ConversationEngine) complete(ctx context.Context, userID string, session *models.Session, out Outcome) Outcome {
	out.Completed = true

	record, err := e.sink.Submit(ctx, session.Answers)
	e.sessions.Delete(userID)

	if err != nil {
		out.Err = err
		out.Reply = MsgSaveFailed
		log.Error().Err(err).Str("user_id", userID).Str("kind", Kind(err)).Msg("❌ Order could not be saved")
		return out
	}

	out.Record = &record
	out.Reply = MsgOrderReceived
	log.Info().Str("user_id", userID).Str("session_id", session.ID).Msg("✅ Order completed")
	return out
}

// StepOf returns the user's current step, or false if there is no session
func (e *ConversationEngine) StepOf(userID string) (models.Step, bool) {
	s := e.sessions.Get(userID)
	if s == nil {
		return 0, false
	}
	return s.Step, true
}
