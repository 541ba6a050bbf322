package email_test

import (
	"testing"

	"github.com/lexo-ch/lexo-forms-sub000/email"
	"github.com/stretchr/testify/require"
)

func TestFirstNonEmpty(t *testing.T) {
	require.Equal(t, "a", email.FirstNonEmpty(email.Static("a"), email.Static("b")))
	require.Equal(t, "b", email.FirstNonEmpty(email.Static(""), email.Static("b")))
	require.Equal(t, "b", email.FirstNonEmpty(email.Static("   "), email.Static("b")))
	require.Equal(t, "b", email.FirstNonEmpty(nil, email.Static("b")))
	require.Equal(t, "", email.FirstNonEmpty(email.Static(""), email.Static("")))
	require.Equal(t, "", email.FirstNonEmpty())
}
