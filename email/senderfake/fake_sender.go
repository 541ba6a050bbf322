package senderfake

import (
	"context"
	"sync"

	"github.com/lexo-ch/lexo-forms-sub000/email"
)

var _ email.Sender = (*FakeSender)(nil)

// FakeSender records every message and can be told to fail, either
// unconditionally via SendErr or selectively via FailWhen.
type FakeSender struct {
	SendErr  error
	FailWhen func(email.Message) bool

	sent []email.Message
	lock sync.Mutex
}

func NewFakeSender() *FakeSender {
	return &FakeSender{}
}

func (s *FakeSender) Send(ctx context.Context, message email.Message) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.SendErr != nil && (s.FailWhen == nil || s.FailWhen(message)) {
		return s.SendErr
	}
	s.sent = append(s.sent, message)
	return nil
}

// Sent returns a copy of all delivered messages.
func (s *FakeSender) Sent() []email.Message {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make([]email.Message, len(s.sent))
	copy(out, s.sent)
	return out
}

func (s *FakeSender) Reset() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.sent = nil
	s.SendErr = nil
	s.FailWhen = nil
}
