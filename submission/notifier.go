package submission

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lexo-ch/lexo-forms-sub000/email"
)

const (
	noticeFullFailure         = "full failure"
	noticePartialRemoteFailed = "partial failure — CleverReach"
	noticePartialEmailFailed  = "partial failure — email"
)

// notifyOperator sends the failure notice the reconciliation rules call for.
// email_only forms never notify: the submitter already sees the error. The
// notice itself is best-effort and only logged on failure.
func (r *Router) notifyOperator(ctx context.Context, formID string, cfg *FormConfig, outcome *Outcome, request Request) {
	kind := noticeKind(cfg, outcome)
	if kind == "" {
		return
	}

	recipients := r.config.GetOperatorRecipients()
	if len(recipients) == 0 {
		log.Warn().Str("component", "submission").Str("form_id", formID).
			Str("correlation_id", outcome.CorrelationID).Msg("No operator recipients for failure notice")
		return
	}

	message := email.Message{
		From:    r.config.GetDefaultFromAddress(),
		To:      recipients,
		Subject: fmt.Sprintf("Form submission %s (form %s, ref %s)", kind, formID, outcome.CorrelationID),
		HTML:    noticeBody(kind, formID, outcome, request),
		Text: fmt.Sprintf("Form submission %s\nForm: %s\nReference: %s\n\n%s\n%s",
			kind, formID, outcome.CorrelationID, joinErrors(outcome.Errors), renderFieldText(request.Fields)),
	}

	if err := r.sender.Send(ctx, message); err != nil {
		log.Error().Str("component", "submission").Str("form_id", formID).
			Str("correlation_id", outcome.CorrelationID).Err(err).Msg("Operator notice failed")
	}
}

func noticeKind(cfg *FormConfig, outcome *Outcome) string {
	if cfg == nil {
		return noticeFullFailure
	}

	remoteOK := outcome.RemoteSent || outcome.AlreadyExists
	switch cfg.HandlerType {
	case HandlerRemoteOnly:
		if !remoteOK {
			return noticeFullFailure
		}
	case HandlerEmailAndRemote:
		switch {
		case !outcome.EmailSent && !remoteOK:
			return noticeFullFailure
		case !remoteOK:
			return noticePartialRemoteFailed
		case !outcome.EmailSent:
			return noticePartialEmailFailed
		}
	}
	return ""
}

func noticeBody(kind, formID string, outcome *Outcome, request Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>%s</strong></p>", html.EscapeString(kind))
	fmt.Fprintf(&b, "<p>Form %s, reference %s.</p>", html.EscapeString(formID), html.EscapeString(outcome.CorrelationID))
	if len(outcome.Errors) > 0 {
		b.WriteString("<ul>")
		for _, err := range outcome.Errors {
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(err.Error()))
		}
		b.WriteString("</ul>")
	}
	b.WriteString("<p>Submitted data:</p>")
	b.WriteString(renderFieldTable(request.Fields))
	return b.String()
}

func joinErrors(errs []error) string {
	if len(errs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}
