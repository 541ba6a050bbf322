package formsync

import (
	"context"
	"strings"
	"time"

	"github.com/lexo-ch/lexo-forms-sub000/cleverreach"
	"github.com/lexo-ch/lexo-forms-sub000/templates"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RemoteAPI is the slice of the remote client the engine drives.
// *cleverreach.Client satisfies it.
type RemoteAPI interface {
	GetGroup(ctx context.Context, groupID int) (*cleverreach.Group, error)
	CreateGroup(ctx context.Context, params cleverreach.CreateGroupParams) (*cleverreach.Group, error)
	GetGroupAttributes(ctx context.Context, groupID int) ([]cleverreach.Attribute, error)
	CreateAttribute(ctx context.Context, groupID int, params cleverreach.CreateAttributeParams) (*cleverreach.Attribute, error)
	GetForm(ctx context.Context, formID int) (*cleverreach.Form, error)
	CreateFormFromTemplate(ctx context.Context, params cleverreach.CreateFormParams) (*cleverreach.Form, error)
}

// Invalidator drops cached remote lookups after the engine mutates remote
// state.
type Invalidator interface {
	InvalidateAll()
}

// AttributeOutcome tags what happened to a single field during provisioning.
type AttributeOutcome string

const (
	AttributeCreated       AttributeOutcome = "created"
	AttributeAlreadyExists AttributeOutcome = "already_exists"
	AttributeSkipped       AttributeOutcome = "skipped"
	AttributeFailed        AttributeOutcome = "failed"
)

// AttributeSyncResult records the outcome per provisioned field so callers
// can apply a strict or lenient policy over individual failures.
type AttributeSyncResult struct {
	Name    string
	Outcome AttributeOutcome
	Err     error
}

// ResolvedIDs is the successful result of a sync run.
type ResolvedIDs struct {
	FormID     int
	GroupID    int
	Attributes []AttributeSyncResult
}

// Engine drives the remote API until exactly one group and one form exist and
// are linked, and every to-be-synced field exists as a group attribute. Every
// failure is recorded on the stored state; nothing escapes untyped.
type Engine struct {
	remote  RemoteAPI
	repo    Repo
	cache   Invalidator
	nowTime func() time.Time
}

type EngineOption func(*Engine)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowTime = nowFunc
	}
}

// WithCacheInvalidator wires the lookup cache that must be dropped after
// remote mutations.
func WithCacheInvalidator(cache Invalidator) EngineOption {
	return func(e *Engine) {
		e.cache = cache
	}
}

func NewEngine(remote RemoteAPI, repo Repo, options ...EngineOption) (*Engine, error) {
	if remote == nil {
		return nil, errors.New("[NewEngine] remote API is required")
	}
	if repo == nil {
		return nil, errors.New("[NewEngine] state repo is required")
	}

	engine := &Engine{
		remote:  remote,
		repo:    repo,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(engine)
	}
	return engine, nil
}

// PerformSync reconciles the desired configuration with the remote side and
// persists the outcome under formID. The returned error is always one of the
// sync sentinels (possibly wrapped); the stored state reflects it either way.
func (e *Engine) PerformSync(ctx context.Context, formID string, state *State, fields []templates.Field) (ResolvedIDs, error) {
	resolved, mutated, err := e.sync(ctx, state, fields)
	if err != nil {
		state.Status = StatusError
		state.StatusMessage = err.Error()
		state.LastSyncedAt = e.nowTime()
		if saveErr := e.repo.Save(formID, state); saveErr != nil {
			log.Error().Str("component", "sync").Str("form_id", formID).Err(saveErr).Msg("Failed to persist error state")
		}
		log.Error().Str("component", "sync").Str("form_id", formID).Err(err).Msg("Sync failed")
		return ResolvedIDs{}, err
	}

	state.ResolvedFormID = resolved.FormID
	state.ResolvedGroupID = resolved.GroupID
	state.Status = StatusOk
	state.StatusMessage = ""
	state.LastSyncedAt = e.nowTime()

	// Re-saving must not create duplicate remote resources: once a
	// create_new sync succeeded, the state points at the created ids.
	if state.FormAction == FormActionCreateNew {
		state.FormAction = FormActionUseExisting
		state.ExistingFormID = resolved.FormID
	}
	if state.GroupAction == GroupActionCreateNew {
		state.GroupAction = GroupActionUseExisting
		state.ExistingGroupID = resolved.GroupID
	}

	if err := e.repo.Save(formID, state); err != nil {
		return ResolvedIDs{}, errors.Wrap(err, "[Engine.PerformSync] persist state")
	}

	if mutated && e.cache != nil {
		e.cache.InvalidateAll()
	}

	log.Info().Str("component", "sync").Str("form_id", formID).
		Int("form", resolved.FormID).Int("group", resolved.GroupID).Msg("Sync completed")
	return resolved, nil
}

func (e *Engine) sync(ctx context.Context, state *State, fields []templates.Field) (ResolvedIDs, bool, error) {
	mutated := false

	// Step 1: resolve the target form id
	targetFormID := state.ExistingFormID
	if state.FormAction == FormActionCreateNew {
		groupID := state.ExistingGroupID
		if state.GroupAction == GroupActionUseExisting {
			if _, err := e.validateGroup(ctx, groupID); err != nil {
				return ResolvedIDs{}, mutated, err
			}
		} else {
			group, err := e.remote.CreateGroup(ctx, cleverreach.CreateGroupParams{
				Name:        state.NewGroupName,
				Description: state.NewGroupName,
			})
			if err != nil || group == nil || group.ID == 0 {
				return ResolvedIDs{}, mutated, wrapSyncErr(GroupCreationFailedErr, err)
			}
			mutated = true
			groupID = group.ID
		}

		form, err := e.remote.CreateFormFromTemplate(ctx, cleverreach.CreateFormParams{
			Name:    state.NewFormName,
			GroupID: groupID,
		})
		if err != nil || form == nil || form.ID == 0 {
			return ResolvedIDs{}, mutated, wrapSyncErr(FormCreationFailedErr, err)
		}
		mutated = true
		targetFormID = form.ID
	} else if targetFormID == 0 {
		return ResolvedIDs{}, mutated, MissingFormSelectionErr
	}

	// Step 2: the remote form is the source of truth for group linkage
	form, err := e.remote.GetForm(ctx, targetFormID)
	if err != nil || form == nil || form.CustomerTablesID == 0 {
		return ResolvedIDs{}, mutated, wrapSyncErr(GroupLinkMissingErr, err)
	}
	groupID := form.CustomerTablesID

	// Step 3: the group must exist and be accessible
	attributes, err := e.validateGroup(ctx, groupID)
	if err != nil {
		return ResolvedIDs{}, mutated, err
	}

	// Step 4: field provisioning is best-effort per attribute
	results, created := e.syncFields(ctx, groupID, attributes, fields)
	if created {
		mutated = true
	}

	return ResolvedIDs{FormID: targetFormID, GroupID: groupID, Attributes: results}, mutated, nil
}

// validateGroup double-checks existence and accessibility: a group can be
// deleted remotely after the local record was created, and archival is not
// always signaled by the plain existence check.
func (e *Engine) validateGroup(ctx context.Context, groupID int) ([]cleverreach.Attribute, error) {
	if groupID == 0 {
		return nil, GroupNotFoundErr
	}
	group, err := e.remote.GetGroup(ctx, groupID)
	if err != nil || group == nil || group.ID == 0 {
		return nil, wrapSyncErr(GroupNotFoundErr, err)
	}
	attributes, err := e.remote.GetGroupAttributes(ctx, groupID)
	if err != nil {
		return nil, wrapSyncErr(GroupInaccessibleErr, err)
	}
	if attributes == nil {
		return nil, GroupInaccessibleErr
	}
	return attributes, nil
}

func (e *Engine) syncFields(ctx context.Context, groupID int, existing []cleverreach.Attribute, fields []templates.Field) ([]AttributeSyncResult, bool) {
	var results []AttributeSyncResult
	created := false

	for _, field := range fields {
		if !field.SendToCR {
			continue
		}

		if cleverreach.IsReservedAttribute(field.Name) {
			results = append(results, AttributeSyncResult{Name: field.Name, Outcome: AttributeSkipped})
			continue
		}

		if hasAttribute(existing, field.Name, field.Type) {
			results = append(results, AttributeSyncResult{Name: field.Name, Outcome: AttributeAlreadyExists})
			continue
		}

		_, err := e.remote.CreateAttribute(ctx, groupID, cleverreach.CreateAttributeParams{
			Name:        field.Name,
			Type:        field.Type,
			Description: field.Description,
			Global:      field.Global,
		})
		if err != nil {
			// Individual attribute failures do not abort the sync.
			log.Warn().Str("component", "sync").Str("attribute", field.Name).Err(err).Msg("Attribute creation failed")
			results = append(results, AttributeSyncResult{Name: field.Name, Outcome: AttributeFailed, Err: err})
			continue
		}
		created = true
		results = append(results, AttributeSyncResult{Name: field.Name, Outcome: AttributeCreated})
	}

	return results, created
}

func hasAttribute(attributes []cleverreach.Attribute, name, attrType string) bool {
	for _, attribute := range attributes {
		if strings.EqualFold(attribute.Name, name) && attribute.Type == attrType {
			return true
		}
	}
	return false
}

func wrapSyncErr(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return errors.Wrap(sentinel, cause.Error())
}
