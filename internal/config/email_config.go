package config

import "strings"

type EmailConfig interface {
	GetResendAPIKey() string
	GetOperatorRecipients() []string
	GetDefaultFromAddress() string
	GetDefaultSubject() string
	GetConfirmationSubject() string
}

type Email struct{}

var _ EmailConfig = Email{}

func (Email) GetResendAPIKey() string {
	return GetEnv("RESEND_API_KEY", "")
}

// GetOperatorRecipients returns the addresses that receive failure notices,
// from a comma-separated OPERATOR_RECIPIENTS value.
func (Email) GetOperatorRecipients() []string {
	raw := GetEnv("OPERATOR_RECIPIENTS", "")
	if raw == "" {
		return nil
	}
	var recipients []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	return recipients
}

func (Email) GetDefaultFromAddress() string {
	return GetEnv("EMAIL_FROM", "forms@localhost")
}

func (Email) GetDefaultSubject() string {
	return GetEnv("EMAIL_SUBJECT", "New form submission")
}

func (Email) GetConfirmationSubject() string {
	return GetEnv("EMAIL_CONFIRMATION_SUBJECT", "Thank you for your submission")
}
