package models

import "time"

// Step is the next answer a conversation expects from the user
type Step int

// Steps in strict forward order. StepComplete is terminal.
const (
	StepAwaitName Step = iota
	StepAwaitPhone
	StepAwaitDurian
	StepAwaitQty
	StepAwaitPacking
	StepAwaitAddress
	StepAwaitDate
	StepAwaitTime
	StepComplete
)

var stepNames = [...]string{
	StepAwaitName:    "AWAIT_NAME",
	StepAwaitPhone:   "AWAIT_PHONE",
	StepAwaitDurian:  "AWAIT_DURIAN",
	StepAwaitQty:     "AWAIT_QTY",
	StepAwaitPacking: "AWAIT_PACKING",
	StepAwaitAddress: "AWAIT_ADDRESS",
	StepAwaitDate:    "AWAIT_DATE",
	StepAwaitTime:    "AWAIT_TIME",
	StepComplete:     "COMPLETE",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "UNKNOWN"
	}
	return stepNames[s]
}

// Session is one user's in-progress order, held in memory only
type Session struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	Step       Step             `json:"step"`
	Answers    map[Field]string `json:"answers"`
	CreatedAt  time.Time        `json:"created_at"`
	LastActive time.Time        `json:"last_active"`
}

// Clone returns a deep copy so callers never share the answers map
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Answers = make(map[Field]string, len(s.Answers))
	for k, v := range s.Answers {
		c.Answers[k] = v
	}
	return &c
}
