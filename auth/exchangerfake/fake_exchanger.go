package exchangerfake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lexo-ch/lexo-forms-sub000/auth"
	"github.com/lexo-ch/lexo-forms-sub000/credentials"
	"github.com/lexo-ch/lexo-forms-sub000/token"
)

var _ auth.Exchanger = (*FakeExchanger)(nil)

// FakeExchanger hands out deterministic token records and counts calls.
type FakeExchanger struct {
	ExchangeErr error
	RefreshErr  error
	Lifetime    time.Duration
	NowTime     func() time.Time

	exchangeCalls int
	refreshCalls  int
	lock          sync.Mutex
}

func NewFakeExchanger() *FakeExchanger {
	return &FakeExchanger{
		Lifetime: time.Hour * 24 * 30,
		NowTime:  time.Now,
	}
}

func (e *FakeExchanger) AuthCodeURL(creds credentials.Credentials, state string) string {
	return fmt.Sprintf("https://auth.example.com/authorize?client_id=%s&state=%s", creds.ClientID, state)
}

func (e *FakeExchanger) Exchange(ctx context.Context, creds credentials.Credentials, code string) (*token.Record, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.exchangeCalls++
	if e.ExchangeErr != nil {
		return nil, e.ExchangeErr
	}
	return &token.Record{
		AccessToken:  fmt.Sprintf("access-%d", e.exchangeCalls),
		RefreshToken: fmt.Sprintf("refresh-%d", e.exchangeCalls),
		ExpiresAt:    e.NowTime().Add(e.Lifetime),
	}, nil
}

func (e *FakeExchanger) Refresh(ctx context.Context, creds credentials.Credentials, refreshToken string) (*token.Record, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.refreshCalls++
	if e.RefreshErr != nil {
		return nil, e.RefreshErr
	}
	return &token.Record{
		AccessToken:  fmt.Sprintf("refreshed-access-%d", e.refreshCalls),
		RefreshToken: refreshToken,
		ExpiresAt:    e.NowTime().Add(e.Lifetime),
	}, nil
}

func (e *FakeExchanger) ExchangeCalls() int {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.exchangeCalls
}

func (e *FakeExchanger) RefreshCalls() int {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.refreshCalls
}
