package token_test

import (
	"testing"
	"time"

	"github.com/lexo-ch/lexo-forms-sub000/token"
	"github.com/stretchr/testify/require"
)

func TestRecordValidity(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	window := time.Hour

	tests := []struct {
		name   string
		record *token.Record
		want   token.Validity
	}{
		{"nil record", nil, token.NoToken},
		{"empty access token", &token.Record{RefreshToken: "r"}, token.NoToken},
		{"expired", &token.Record{AccessToken: "a", ExpiresAt: now.Add(-time.Second)}, token.Expired},
		{"expires exactly now", &token.Record{AccessToken: "a", ExpiresAt: now}, token.Expired},
		{"inside window", &token.Record{AccessToken: "a", ExpiresAt: now.Add(30 * time.Minute)}, token.ExpiringSoon},
		{"valid", &token.Record{AccessToken: "a", ExpiresAt: now.Add(2 * time.Hour)}, token.Valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.record.Validity(now, window))
		})
	}
}

func TestRemainingLifetime(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	record := &token.Record{AccessToken: "a", ExpiresAt: now.Add(3 * time.Hour)}
	require.Equal(t, 3*time.Hour, record.RemainingLifetime(now))

	expired := &token.Record{AccessToken: "a", ExpiresAt: now.Add(-time.Hour)}
	require.Equal(t, time.Duration(0), expired.RemainingLifetime(now))
	require.Equal(t, time.Duration(0), (*token.Record)(nil).RemainingLifetime(now))
}
