package submission

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lexo-ch/lexo-forms-sub000/cleverreach"
	"github.com/lexo-ch/lexo-forms-sub000/email"
	"github.com/lexo-ch/lexo-forms-sub000/formsync"
	"github.com/lexo-ch/lexo-forms-sub000/internal/config"
)

// RemoteAPI is the slice of the remote client the router needs for recipient
// upserts and opportunistic attribute provisioning.
type RemoteAPI interface {
	GetGroupAttributes(ctx context.Context, groupID int) ([]cleverreach.Attribute, error)
	CreateAttribute(ctx context.Context, groupID int, params cleverreach.CreateAttributeParams) (*cleverreach.Attribute, error)
	GetReceiver(ctx context.Context, groupID int, email string) (*cleverreach.Receiver, error)
	InsertReceiver(ctx context.Context, groupID int, params cleverreach.UpsertReceiverParams) (*cleverreach.Receiver, error)
	UpdateReceiver(ctx context.Context, groupID int, email string, params cleverreach.UpsertReceiverParams) (*cleverreach.Receiver, error)
	SendActivationMail(ctx context.Context, formID int, email string, doi cleverreach.DOIData) error
}

// Request is one end-user submission together with the request metadata the
// double-opt-in mail carries.
type Request struct {
	Fields    map[string]string
	UserIP    string
	UserAgent string
	Referer   string
}

// Repos holds the router's persistence collaborators.
type Repos struct {
	Configs ConfigSource
	States  formsync.Repo
}

// Router executes the configured delivery channels for a submission and
// reconciles partial failure: the submitter sees success whenever at least
// one channel went through, and the operator is notified of every failure.
type Router struct {
	repos  Repos
	remote RemoteAPI
	sender email.Sender
	config config.EmailConfig
	newID  func() string
}

type RouterOption func(*Router)

// WithIDGenerator overrides correlation-id generation.
func WithIDGenerator(generate func() string) RouterOption {
	return func(r *Router) {
		r.newID = generate
	}
}

func NewRouter(repos Repos, remote RemoteAPI, sender email.Sender, cfg config.EmailConfig, options ...RouterOption) (*Router, error) {
	if repos.Configs == nil || repos.States == nil {
		return nil, errors.New("[NewRouter] config and state repositories are required")
	}
	if remote == nil {
		return nil, errors.New("[NewRouter] remote API is required")
	}
	if sender == nil {
		return nil, errors.New("[NewRouter] email sender is required")
	}

	router := &Router{
		repos:  repos,
		remote: remote,
		sender: sender,
		config: cfg,
		newID:  uuid.NewString,
	}
	for _, opt := range options {
		opt(router)
	}
	return router, nil
}

// Submit runs every channel the form's handler type selects. Channel failures
// never abort the other channel; they are collected on the outcome.
func (r *Router) Submit(ctx context.Context, formID string, request Request) Outcome {
	outcome := Outcome{CorrelationID: r.newID()}

	cfg, err := r.repos.Configs.Get(formID)
	if err != nil {
		outcome.Errors = append(outcome.Errors, errors.Wrap(err, "[Router.Submit] load form config"))
		log.Error().Str("component", "submission").Str("form_id", formID).
			Str("correlation_id", outcome.CorrelationID).Err(err).Msg("No submission config")
		r.notifyOperator(ctx, formID, cfg, &outcome, request)
		return outcome
	}

	remoteWanted := cfg.HandlerType == HandlerRemoteOnly || cfg.HandlerType == HandlerEmailAndRemote
	emailWanted := cfg.HandlerType == HandlerEmailOnly || cfg.HandlerType == HandlerEmailAndRemote

	if remoteWanted {
		err := r.submitRemote(ctx, formID, cfg, request)
		switch {
		case err == nil:
			outcome.RemoteSent = true
		case errors.Is(err, AlreadySubscribedErr):
			outcome.AlreadyExists = true
		default:
			outcome.Errors = append(outcome.Errors, err)
			log.Error().Str("component", "submission").Str("form_id", formID).
				Str("correlation_id", outcome.CorrelationID).Err(err).Msg("Remote channel failed")
		}
	}

	if emailWanted {
		if err := r.submitEmail(ctx, cfg, request); err != nil {
			outcome.Errors = append(outcome.Errors, err)
			log.Error().Str("component", "submission").Str("form_id", formID).
				Str("correlation_id", outcome.CorrelationID).Err(err).Msg("Email channel failed")
		} else {
			outcome.EmailSent = true
		}
	}

	r.notifyOperator(ctx, formID, cfg, &outcome, request)

	if outcome.Success() {
		r.sendConfirmation(ctx, formID, cfg, request)
	}

	return outcome
}

func (r *Router) submitRemote(ctx context.Context, formID string, cfg *FormConfig, request Request) error {
	state, err := r.repos.States.Get(formID)
	if err != nil || !state.Synced() {
		return wrapChannelErr(IntegrationNotConfiguredErr, err)
	}

	address := submitterEmail(request.Fields)
	if address == "" {
		return errors.Wrap(RemoteUpsertFailedErr, "submission carries no email field")
	}

	r.provisionAttributes(ctx, state.ResolvedGroupID, request.Fields)

	params := cleverreach.UpsertReceiverParams{
		Email:      address,
		Attributes: attributeValues(request.Fields),
		Source: email.FirstNonEmpty(
			email.Static(cfg.Source),
			email.Static("form "+formID),
		),
	}
	doi := cleverreach.DOIData{UserIP: request.UserIP, UserAgent: request.UserAgent, Referer: request.Referer}

	receiver, err := r.remote.GetReceiver(ctx, state.ResolvedGroupID, address)
	switch {
	case err == nil && receiver != nil && receiver.Active:
		return AlreadySubscribedErr

	case err == nil:
		// Known but inactive: refresh the stored values, then restart the
		// double-opt-in flow.
		if _, err := r.remote.UpdateReceiver(ctx, state.ResolvedGroupID, address, params); err != nil {
			return classifyRemoteErr(err)
		}

	case cleverreach.IsNotFound(err):
		if _, err := r.remote.InsertReceiver(ctx, state.ResolvedGroupID, params); err != nil {
			return classifyRemoteErr(err)
		}

	default:
		return classifyRemoteErr(err)
	}

	if err := r.remote.SendActivationMail(ctx, state.ResolvedFormID, address, doi); err != nil {
		return classifyRemoteErr(err)
	}
	return nil
}

func (r *Router) submitEmail(ctx context.Context, cfg *FormConfig, request Request) error {
	recipients := cfg.Recipients
	if len(recipients) == 0 {
		recipients = r.config.GetOperatorRecipients()
	}
	if len(recipients) == 0 {
		return errors.Wrap(EmailFailedErr, "no recipients configured")
	}

	message := email.Message{
		From: email.FirstNonEmpty(
			email.Static(cfg.FromAddress),
			r.config.GetDefaultFromAddress,
		),
		To: recipients,
		Subject: email.FirstNonEmpty(
			email.Static(cfg.Subject),
			r.config.GetDefaultSubject,
			email.Static("New form submission"),
		),
		HTML:    renderFieldTable(request.Fields),
		Text:    renderFieldText(request.Fields),
		ReplyTo: submitterEmail(request.Fields),
	}

	if err := r.sender.Send(ctx, message); err != nil {
		return wrapChannelErr(EmailFailedErr, err)
	}
	return nil
}

// sendConfirmation is best-effort: a failed confirmation never turns a
// successful submission into a failure.
func (r *Router) sendConfirmation(ctx context.Context, formID string, cfg *FormConfig, request Request) {
	if !cfg.SendConfirmation {
		return
	}
	address := submitterEmail(request.Fields)
	if address == "" {
		return
	}

	message := email.Message{
		From: r.config.GetDefaultFromAddress(),
		To:   []string{address},
		Subject: email.FirstNonEmpty(
			email.Static(cfg.ConfirmationSubject),
			r.config.GetConfirmationSubject,
			email.Static("Thank you for your submission"),
		),
		HTML: renderFieldTable(request.Fields),
		Text: renderFieldText(request.Fields),
	}
	if err := r.sender.Send(ctx, message); err != nil {
		log.Warn().Str("component", "submission").Str("form_id", formID).
			Err(err).Msg("Confirmation email failed")
	}
}

// provisionAttributes creates group attributes for submitted fields the group
// does not know yet. Best-effort: any failure here is logged and the upsert
// proceeds.
func (r *Router) provisionAttributes(ctx context.Context, groupID int, fields map[string]string) {
	existing, err := r.remote.GetGroupAttributes(ctx, groupID)
	if err != nil || existing == nil {
		log.Warn().Str("component", "submission").Int("group", groupID).
			Err(err).Msg("Skipping attribute provisioning, group attributes unavailable")
		return
	}

	known := make(map[string]struct{}, len(existing))
	for _, attribute := range existing {
		known[strings.ToLower(attribute.Name)] = struct{}{}
	}

	for name := range fields {
		if cleverreach.IsReservedAttribute(name) {
			continue
		}
		if _, ok := known[strings.ToLower(name)]; ok {
			continue
		}
		_, err := r.remote.CreateAttribute(ctx, groupID, cleverreach.CreateAttributeParams{
			Name:        name,
			Type:        "text",
			Description: name,
		})
		if err != nil {
			log.Warn().Str("component", "submission").Int("group", groupID).
				Str("attribute", name).Err(err).Msg("Attribute provisioning failed")
		}
	}
}

// submitterEmail finds the submitted email field, case-insensitively.
func submitterEmail(fields map[string]string) string {
	for name, value := range fields {
		if strings.EqualFold(name, "email") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// attributeValues are all submitted fields except the email itself.
func attributeValues(fields map[string]string) map[string]string {
	values := make(map[string]string, len(fields))
	for name, value := range fields {
		if strings.EqualFold(name, "email") {
			continue
		}
		values[name] = value
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

func classifyRemoteErr(err error) error {
	var apiErr *cleverreach.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return wrapChannelErr(NoValidTokenErr, err)
	}
	return wrapChannelErr(RemoteUpsertFailedErr, err)
}

func wrapChannelErr(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return errors.Wrap(sentinel, cause.Error())
}
