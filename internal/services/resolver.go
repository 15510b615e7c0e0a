package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sakeenah/sakeenah/internal/models"
	"github.com/sakeenah/sakeenah/pkg/validator"
)

// ErrInvalidInvitationUID indicates a candidate uid is not a valid slug.
var ErrInvalidInvitationUID = errors.New("resolver: invitation uid must be lowercase alphanumeric with hyphens")

// ResolveSources are the candidate uid sources in priority order: explicit
// path segment, then query parameter. The resolver's own cached and default
// uids come after these.
type ResolveSources struct {
	Path  string
	Query string
}

// Resolver picks the active invitation for one client session. The uid is
// pinned after the first successful resolution and never re-derived, so a
// session cannot swap invitations mid-flight. Construct one resolver per
// session; there is no shared global state.
type Resolver struct {
	invitations *InvitationService
	defaultUID  string

	mu       sync.Mutex
	cached   string
	resolved string
}

// NewResolver builds a resolver with an optional previously cached uid and a
// deployment-level default.
func NewResolver(invitations *InvitationService, cachedUID, defaultUID string) (*Resolver, error) {
	if invitations == nil {
		return nil, errors.New("resolver: invitation service is required")
	}
	return &Resolver{
		invitations: invitations,
		cached:      strings.TrimSpace(cachedUID),
		defaultUID:  strings.TrimSpace(defaultUID),
	}, nil
}

// Resolve returns the invitation for the first usable candidate source.
// Once a resolution succeeds, later calls return the pinned invitation and
// ignore new sources.
func (r *Resolver) Resolve(ctx context.Context, sources ResolveSources) (*models.Invitation, error) {
	if r == nil {
		return nil, errors.New("resolver: not initialised")
	}

	r.mu.Lock()
	uid := r.resolved
	r.mu.Unlock()

	if uid == "" {
		candidate := firstNonEmpty(
			strings.TrimSpace(sources.Path),
			strings.TrimSpace(sources.Query),
			r.cached,
			r.defaultUID,
		)
		if candidate == "" {
			return nil, ErrInvitationNotFound
		}
		if !validator.IsSlug(candidate) {
			return nil, ErrInvalidInvitationUID
		}
		uid = candidate
	}

	invitation, err := r.invitations.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.resolved == "" {
		r.resolved = uid
	}
	r.mu.Unlock()

	return invitation, nil
}

// ResolvedUID returns the pinned uid, or empty when nothing resolved yet.
func (r *Resolver) ResolvedUID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolved
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
