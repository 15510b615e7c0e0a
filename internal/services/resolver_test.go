package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakeenah/sakeenah/internal/database"
	"github.com/sakeenah/sakeenah/internal/database/testutil"
	"github.com/sakeenah/sakeenah/internal/models"
)

// newResolverFixture opens one seeded store per test. Concurrent opens of the
// shared in-memory database alias the same store, so tests needing several
// resolvers build them over this single invitation service instead of opening
// the database again.
func newResolverFixture(t *testing.T) *InvitationService {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	second := models.Invitation{
		UID:       "second-wedding",
		Title:     "Second Wedding",
		GroomName: "Groom",
		BrideName: "Bride",
	}
	require.NoError(t, db.Create(&second).Error)

	invitations, err := NewInvitationService(db, 0)
	require.NoError(t, err)

	return invitations
}

func newResolver(t *testing.T, invitations *InvitationService, cached, fallback string) *Resolver {
	t.Helper()

	resolver, err := NewResolver(invitations, cached, fallback)
	require.NoError(t, err)
	return resolver
}

func TestResolver_PriorityOrder(t *testing.T) {
	ctx := context.Background()
	invitations := newResolverFixture(t)

	resolver := newResolver(t, invitations, "second-wedding", database.DefaultInvitationUID)
	invitation, err := resolver.Resolve(ctx, ResolveSources{Path: database.DefaultInvitationUID, Query: "second-wedding"})
	require.NoError(t, err)
	require.Equal(t, database.DefaultInvitationUID, invitation.UID, "path wins over query")

	resolver = newResolver(t, invitations, database.DefaultInvitationUID, "ignored-default")
	invitation, err = resolver.Resolve(ctx, ResolveSources{Query: "second-wedding"})
	require.NoError(t, err)
	require.Equal(t, "second-wedding", invitation.UID, "query wins over cached")

	resolver = newResolver(t, invitations, "second-wedding", database.DefaultInvitationUID)
	invitation, err = resolver.Resolve(ctx, ResolveSources{})
	require.NoError(t, err)
	require.Equal(t, "second-wedding", invitation.UID, "cached wins over default")

	resolver = newResolver(t, invitations, "", database.DefaultInvitationUID)
	invitation, err = resolver.Resolve(ctx, ResolveSources{})
	require.NoError(t, err)
	require.Equal(t, database.DefaultInvitationUID, invitation.UID, "default is the last resort")
}

func TestResolver_PinsFirstResolution(t *testing.T) {
	ctx := context.Background()
	invitations := newResolverFixture(t)

	resolver := newResolver(t, invitations, "", database.DefaultInvitationUID)

	invitation, err := resolver.Resolve(ctx, ResolveSources{Path: database.DefaultInvitationUID})
	require.NoError(t, err)
	require.Equal(t, database.DefaultInvitationUID, invitation.UID)
	require.Equal(t, database.DefaultInvitationUID, resolver.ResolvedUID())

	// A later call with a different source keeps the pinned uid.
	invitation, err = resolver.Resolve(ctx, ResolveSources{Path: "second-wedding"})
	require.NoError(t, err)
	require.Equal(t, database.DefaultInvitationUID, invitation.UID)
}

func TestResolver_FailedResolutionDoesNotPin(t *testing.T) {
	ctx := context.Background()
	invitations := newResolverFixture(t)

	resolver := newResolver(t, invitations, "", "")

	_, err := resolver.Resolve(ctx, ResolveSources{Path: "missing-wedding"})
	require.ErrorIs(t, err, ErrInvitationNotFound)
	require.Empty(t, resolver.ResolvedUID())

	// The session can still resolve a real invitation afterwards.
	invitation, err := resolver.Resolve(ctx, ResolveSources{Path: "second-wedding"})
	require.NoError(t, err)
	require.Equal(t, "second-wedding", invitation.UID)
}

func TestResolver_RejectsMalformedUID(t *testing.T) {
	resolver := newResolver(t, newResolverFixture(t), "", "")

	_, err := resolver.Resolve(context.Background(), ResolveSources{Path: "INVALID_FORMAT"})
	require.ErrorIs(t, err, ErrInvalidInvitationUID)
}

func TestResolver_NoCandidates(t *testing.T) {
	resolver := newResolver(t, newResolverFixture(t), "", "")

	_, err := resolver.Resolve(context.Background(), ResolveSources{})
	require.ErrorIs(t, err, ErrInvitationNotFound)
}
