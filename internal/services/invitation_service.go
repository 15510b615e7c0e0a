package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sakeenah/sakeenah/internal/models"
)

var (
	// ErrInvitationNotFound indicates the requested invitation does not exist.
	ErrInvitationNotFound = errors.New("invitation service: invitation not found")
)

// InvitationService performs point reads of invitation documents. Invitations
// are written at seed time and never mutated at runtime.
type InvitationService struct {
	db           *gorm.DB
	fetchTimeout time.Duration
}

// NewInvitationService constructs an invitation service. fetchTimeout bounds
// each point read; zero disables the bound.
func NewInvitationService(db *gorm.DB, fetchTimeout time.Duration) (*InvitationService, error) {
	if db == nil {
		return nil, errors.New("invitation service: db is required")
	}
	return &InvitationService{db: db, fetchTimeout: fetchTimeout}, nil
}

// Get fetches one invitation by uid with its agenda and bank accounts.
func (s *InvitationService) Get(ctx context.Context, uid string) (*models.Invitation, error) {
	if s == nil {
		return nil, errors.New("invitation service: service not initialised")
	}
	ctx = ensuredContext(ctx)

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, ErrInvitationNotFound
	}

	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	var invitation models.Invitation
	err := s.db.WithContext(ctx).
		Preload("Agenda").
		Preload("Banks").
		First(&invitation, "uid = ?", uid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}

	return &invitation, nil
}

// Exists reports whether an invitation with the uid is present.
func (s *InvitationService) Exists(ctx context.Context, uid string) (bool, error) {
	if s == nil {
		return false, errors.New("invitation service: service not initialised")
	}
	ctx = ensuredContext(ctx)

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return false, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("uid = ?", uid).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
