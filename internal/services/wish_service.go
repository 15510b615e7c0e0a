package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/sakeenah/sakeenah/internal/models"
)

var (
	// ErrWishNotFound indicates the requested wish does not exist for the invitation.
	ErrWishNotFound = errors.New("wish service: wish not found")

	// ErrDuplicateWish indicates a wish already exists for the (invitation, name) pair.
	ErrDuplicateWish = errors.New("wish service: duplicate wish")

	// ErrInvalidInput indicates a submission failed validation before any write.
	ErrInvalidInput = errors.New("wish service: invalid input")
)

// WishService manages guest wishes and enforces the one-wish-per-guest rule.
type WishService struct {
	db *gorm.DB
}

// NewWishService constructs a wish service once a database handle is supplied.
func NewWishService(db *gorm.DB) (*WishService, error) {
	if db == nil {
		return nil, errors.New("wish service: db is required")
	}
	return &WishService{db: db}, nil
}

func ensuredContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// SubmitWishInput captures a guest submission. Attendance defaults to MAYBE
// when empty.
type SubmitWishInput struct {
	Name       string
	Message    string
	Attendance string
}

// AttendanceStats partitions wish counts by RSVP state. Legacy values outside
// the enumeration count only toward Total.
type AttendanceStats struct {
	Attending    int64 `json:"attending"`
	NotAttending int64 `json:"not_attending"`
	Maybe        int64 `json:"maybe"`
	Total        int64 `json:"total"`
}

// Submit validates and stores a new wish.
//
// The guest name is used verbatim after trimming as the dedup key: no case
// folding, no whitespace normalisation inside the name. The existence check
// runs first so a returning guest gets the friendly duplicate result without
// a write; the unique index backs it up when two submissions race past the
// check, in which case the losing insert surfaces as the same duplicate
// result.
func (s *WishService) Submit(ctx context.Context, invitationUID string, input SubmitWishInput) (*models.Wish, error) {
	if s == nil {
		return nil, errors.New("wish service: service not initialised")
	}
	ctx = ensuredContext(ctx)

	uid := strings.TrimSpace(invitationUID)
	if uid == "" {
		return nil, fmt.Errorf("%w: invitation uid is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	attendance := models.Attendance(strings.TrimSpace(input.Attendance))
	if attendance == "" {
		attendance = models.AttendanceMaybe
	}
	if !attendance.Valid() {
		return nil, fmt.Errorf("%w: attendance must be one of ATTENDING, NOT_ATTENDING, MAYBE", ErrInvalidInput)
	}

	exists, err := s.exists(ctx, uid, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateWish
	}

	wish := models.Wish{
		InvitationUID: uid,
		Name:          name,
		Message:       message,
		Attendance:    attendance,
	}

	if err := s.db.WithContext(ctx).Create(&wish).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateWish
		}
		return nil, err
	}

	return &wish, nil
}

// List returns wishes for the invitation sorted newest first, sliced by
// offset/limit, plus the total count before slicing.
//
// Sorting happens here rather than in the query so relational and document
// backends behave identically without an ordered composite index.
func (s *WishService) List(ctx context.Context, invitationUID string, limit, offset int) ([]models.Wish, int64, error) {
	if s == nil {
		return nil, 0, errors.New("wish service: service not initialised")
	}
	ctx = ensuredContext(ctx)

	var wishes []models.Wish
	if err := s.db.WithContext(ctx).
		Where("invitation_uid = ?", strings.TrimSpace(invitationUID)).
		Find(&wishes).Error; err != nil {
		return nil, 0, err
	}

	total := int64(len(wishes))

	sort.SliceStable(wishes, func(i, j int) bool {
		return wishes[i].CreatedAt.After(wishes[j].CreatedAt)
	})

	if offset > 0 {
		if offset >= len(wishes) {
			wishes = nil
		} else {
			wishes = wishes[offset:]
		}
	}
	if limit > 0 && limit < len(wishes) {
		wishes = wishes[:limit]
	}

	return wishes, total, nil
}

// Delete removes a wish only when it belongs to the supplied invitation.
// A wish id from another invitation reports not-found and deletes nothing.
func (s *WishService) Delete(ctx context.Context, invitationUID, wishID string) error {
	if s == nil {
		return errors.New("wish service: service not initialised")
	}
	ctx = ensuredContext(ctx)

	uid := strings.TrimSpace(invitationUID)
	id := strings.TrimSpace(wishID)
	if uid == "" || id == "" {
		return ErrWishNotFound
	}

	var wish models.Wish
	if err := s.db.WithContext(ctx).
		First(&wish, "id = ? AND invitation_uid = ?", id, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWishNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Delete(&models.Wish{}, "id = ?", wish.ID).Error
}

// CheckSubmitted reports whether a wish exists for the exact (invitation, name)
// pair, using the same matching rule as the duplicate guard.
func (s *WishService) CheckSubmitted(ctx context.Context, invitationUID, name string) (bool, error) {
	if s == nil {
		return false, errors.New("wish service: service not initialised")
	}
	ctx = ensuredContext(ctx)

	name = strings.TrimSpace(name)
	uid := strings.TrimSpace(invitationUID)
	if uid == "" || name == "" {
		return false, nil
	}

	return s.exists(ctx, uid, name)
}

// Stats counts wishes for the invitation partitioned by attendance.
func (s *WishService) Stats(ctx context.Context, invitationUID string) (*AttendanceStats, error) {
	if s == nil {
		return nil, errors.New("wish service: service not initialised")
	}
	ctx = ensuredContext(ctx)

	var rows []struct {
		Attendance models.Attendance
		Count      int64
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Wish{}).
		Select("attendance, COUNT(*) AS count").
		Where("invitation_uid = ?", strings.TrimSpace(invitationUID)).
		Group("attendance").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &AttendanceStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Attendance {
		case models.AttendanceAttending:
			stats.Attending = row.Count
		case models.AttendanceNotAttending:
			stats.NotAttending = row.Count
		case models.AttendanceMaybe:
			stats.Maybe = row.Count
		}
	}

	return stats, nil
}

const csvTimeLayout = "2006-01-02 15:04:05"

// ExportCSV streams all wishes for the invitation as CSV, oldest first.
// The output is UTF-8 with a BOM so spreadsheet tools pick up the encoding.
func (s *WishService) ExportCSV(ctx context.Context, invitationUID string, w io.Writer) error {
	if s == nil {
		return errors.New("wish service: service not initialised")
	}
	ctx = ensuredContext(ctx)

	var wishes []models.Wish
	if err := s.db.WithContext(ctx).
		Where("invitation_uid = ?", strings.TrimSpace(invitationUID)).
		Find(&wishes).Error; err != nil {
		return err
	}

	sort.SliceStable(wishes, func(i, j int) bool {
		return wishes[i].CreatedAt.Before(wishes[j].CreatedAt)
	})

	if _, err := w.Write([]byte("\ufeff")); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Message", "Attendance", "Date"}); err != nil {
		return err
	}
	for _, wish := range wishes {
		record := []string{
			wish.Name,
			wish.Message,
			string(wish.Attendance),
			wish.CreatedAt.UTC().Format(csvTimeLayout),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *WishService) exists(ctx context.Context, uid, name string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Wish{}).
		Where("invitation_uid = ? AND name = ?", uid, name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
