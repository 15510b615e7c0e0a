// Package migration copies a legacy relational deployment into the current
// store. It is a one-shot utility: runs read the legacy tables in full and
// insert them through the normal models, so the target should be empty.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sakeenah/sakeenah/internal/models"
	"github.com/sakeenah/sakeenah/pkg/logger"
)

// batchSize matches the write batch limit of the original migration script.
const batchSize = 450

// OpenSource connects to the legacy database over the pgx stdlib driver.
func OpenSource(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("migration: source dsn is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("migration: open source: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration: ping source: %w", err)
	}

	return db, nil
}

// Report counts the rows copied per table.
type Report struct {
	Invitations int
	Agenda      int
	Banks       int
	Wishes      int
}

// Migrator streams rows from the legacy store into the target.
type Migrator struct {
	source *sql.DB
	target *gorm.DB
	log    *zap.Logger
}

// New constructs a migrator. Both handles must be open.
func New(source *sql.DB, target *gorm.DB) (*Migrator, error) {
	if source == nil {
		return nil, errors.New("migration: source handle is required")
	}
	if target == nil {
		return nil, errors.New("migration: target handle is required")
	}
	return &Migrator{
		source: source,
		target: target,
		log:    logger.WithModule("migration"),
	}, nil
}

// Run copies all tables in dependency order: invitations first, then their
// agenda, bank and wish rows. Wish timestamps are preserved so ordering
// survives the move.
func (m *Migrator) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	invitations, err := m.readInvitations(ctx)
	if err != nil {
		return nil, err
	}
	if err := createInBatches(ctx, m.target, invitations); err != nil {
		return nil, fmt.Errorf("migration: write invitations: %w", err)
	}
	report.Invitations = len(invitations)
	m.log.Info("invitations copied", zap.Int("count", report.Invitations))

	agenda, err := m.readAgenda(ctx)
	if err != nil {
		return nil, err
	}
	if err := createInBatches(ctx, m.target, agenda); err != nil {
		return nil, fmt.Errorf("migration: write agenda: %w", err)
	}
	report.Agenda = len(agenda)
	m.log.Info("agenda items copied", zap.Int("count", report.Agenda))

	banks, err := m.readBanks(ctx)
	if err != nil {
		return nil, err
	}
	if err := createInBatches(ctx, m.target, banks); err != nil {
		return nil, fmt.Errorf("migration: write banks: %w", err)
	}
	report.Banks = len(banks)
	m.log.Info("bank accounts copied", zap.Int("count", report.Banks))

	wishes, err := m.readWishes(ctx)
	if err != nil {
		return nil, err
	}
	if err := createInBatches(ctx, m.target, wishes); err != nil {
		return nil, fmt.Errorf("migration: write wishes: %w", err)
	}
	report.Wishes = len(wishes)
	m.log.Info("wishes copied", zap.Int("count", report.Wishes))

	return report, nil
}

func createInBatches[T any](ctx context.Context, db *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(rows, batchSize).Error
}

func (m *Migrator) readInvitations(ctx context.Context) ([]models.Invitation, error) {
	const query = `
		SELECT uid,
		       COALESCE(title, ''),
		       COALESCE(description, ''),
		       COALESCE(groom_name, ''),
		       COALESCE(bride_name, ''),
		       COALESCE(parent_groom, ''),
		       COALESCE(parent_bride, ''),
		       COALESCE(wedding_date, ''),
		       COALESCE("time", ''),
		       COALESCE(location, ''),
		       COALESCE(address, ''),
		       COALESCE(maps_url, ''),
		       COALESCE(maps_embed, ''),
		       COALESCE(og_image, ''),
		       COALESCE(favicon, ''),
		       audio
		FROM invitations`

	rows, err := m.source.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("migration: read invitations: %w", err)
	}
	defer rows.Close()

	var out []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		var audio []byte
		if err := rows.Scan(
			&inv.UID, &inv.Title, &inv.Description,
			&inv.GroomName, &inv.BrideName, &inv.ParentGroom, &inv.ParentBride,
			&inv.WeddingDate, &inv.Time, &inv.Location, &inv.Address,
			&inv.MapsURL, &inv.MapsEmbed, &inv.OGImage, &inv.Favicon,
			&audio,
		); err != nil {
			return nil, fmt.Errorf("migration: scan invitation: %w", err)
		}
		if len(audio) > 0 {
			inv.Audio = datatypes.JSON(audio)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (m *Migrator) readAgenda(ctx context.Context) ([]models.AgendaItem, error) {
	const query = `
		SELECT invitation_uid,
		       COALESCE(title, ''),
		       COALESCE(date, ''),
		       COALESCE(start_time, ''),
		       COALESCE(end_time, ''),
		       COALESCE(location, ''),
		       COALESCE(address, '')
		FROM agenda`

	rows, err := m.source.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("migration: read agenda: %w", err)
	}
	defer rows.Close()

	var out []models.AgendaItem
	for rows.Next() {
		var item models.AgendaItem
		if err := rows.Scan(
			&item.InvitationUID, &item.Title, &item.Date,
			&item.StartTime, &item.EndTime, &item.Location, &item.Address,
		); err != nil {
			return nil, fmt.Errorf("migration: scan agenda item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (m *Migrator) readBanks(ctx context.Context) ([]models.BankAccount, error) {
	const query = `
		SELECT invitation_uid,
		       COALESCE(bank, ''),
		       COALESCE(account_number, ''),
		       COALESCE(account_name, '')
		FROM banks`

	rows, err := m.source.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("migration: read banks: %w", err)
	}
	defer rows.Close()

	var out []models.BankAccount
	for rows.Next() {
		var bank models.BankAccount
		if err := rows.Scan(
			&bank.InvitationUID, &bank.Bank, &bank.AccountNumber, &bank.AccountName,
		); err != nil {
			return nil, fmt.Errorf("migration: scan bank account: %w", err)
		}
		out = append(out, bank)
	}
	return out, rows.Err()
}

func (m *Migrator) readWishes(ctx context.Context) ([]models.Wish, error) {
	const query = `
		SELECT id,
		       invitation_uid,
		       COALESCE(name, ''),
		       COALESCE(message, ''),
		       COALESCE(attendance, 'MAYBE'),
		       created_at
		FROM wishes
		ORDER BY created_at`

	rows, err := m.source.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("migration: read wishes: %w", err)
	}
	defer rows.Close()

	var out []models.Wish
	for rows.Next() {
		var wish models.Wish
		var attendance string
		if err := rows.Scan(
			&wish.ID, &wish.InvitationUID, &wish.Name, &wish.Message,
			&attendance, &wish.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("migration: scan wish: %w", err)
		}
		wish.Attendance = models.Attendance(attendance)
		out = append(out, wish)
	}
	return out, rows.Err()
}
