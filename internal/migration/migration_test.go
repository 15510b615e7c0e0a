package migration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sakeenah/sakeenah/internal/database"
	"github.com/sakeenah/sakeenah/internal/models"
	"github.com/sakeenah/sakeenah/pkg/logger"
)

func openNamedMemoryDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Driver: "sqlite",
		DSN:    "file:" + name + "?mode=memory&cache=shared&_foreign_keys=1",
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func seedLegacySource(t *testing.T, db *gorm.DB) {
	t.Helper()

	statements := []string{
		`CREATE TABLE invitations (
			uid TEXT PRIMARY KEY,
			title TEXT, description TEXT,
			groom_name TEXT, bride_name TEXT,
			parent_groom TEXT, parent_bride TEXT,
			wedding_date TEXT, "time" TEXT,
			location TEXT, address TEXT,
			maps_url TEXT, maps_embed TEXT,
			og_image TEXT, favicon TEXT,
			audio TEXT
		)`,
		`CREATE TABLE agenda (
			invitation_uid TEXT, title TEXT, date TEXT,
			start_time TEXT, end_time TEXT, location TEXT, address TEXT
		)`,
		`CREATE TABLE banks (
			invitation_uid TEXT, bank TEXT, account_number TEXT, account_name TEXT
		)`,
		`CREATE TABLE wishes (
			id TEXT PRIMARY KEY, invitation_uid TEXT,
			name TEXT, message TEXT, attendance TEXT,
			created_at TIMESTAMP
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	require.NoError(t, db.Exec(
		`INSERT INTO invitations (uid, title, groom_name, bride_name, wedding_date, audio)
		 VALUES ('legacy-wedding', 'Legacy Wedding', 'Ravi', 'Priya', '2024-11-20', '{"src":"/music/song.mp3","autoplay":true}')`,
	).Error)

	require.NoError(t, db.Exec(
		`INSERT INTO agenda (invitation_uid, title, date, start_time) VALUES
		 ('legacy-wedding', 'Ceremony', '2024-11-20', '10:00'),
		 ('legacy-wedding', 'Reception', '2024-11-20', '18:00')`,
	).Error)

	require.NoError(t, db.Exec(
		`INSERT INTO banks (invitation_uid, bank, account_number, account_name)
		 VALUES ('legacy-wedding', 'HDFC', '1234567890', 'Ravi Kumar')`,
	).Error)

	base := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	for i, guest := range []string{"First Guest", "Second Guest", "Third Guest"} {
		require.NoError(t, db.Exec(
			`INSERT INTO wishes (id, invitation_uid, name, message, attendance, created_at)
			 VALUES (?, 'legacy-wedding', ?, 'Congrats', 'ATTENDING', ?)`,
			string(rune('a'+i)), guest, base.Add(time.Duration(i)*time.Minute),
		).Error)
	}
}

func TestMigratorCopiesAllTables(t *testing.T) {
	require.NoError(t, logger.Init("error"))

	source := openNamedMemoryDB(t, "legacy_source")
	seedLegacySource(t, source)

	target := openNamedMemoryDB(t, "migration_target")
	require.NoError(t, database.AutoMigrate(target))

	sourceSQL, err := source.DB()
	require.NoError(t, err)

	m, err := New(sourceSQL, target)
	require.NoError(t, err)

	report, err := m.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Invitations)
	require.Equal(t, 2, report.Agenda)
	require.Equal(t, 1, report.Banks)
	require.Equal(t, 3, report.Wishes)

	var inv models.Invitation
	require.NoError(t, target.Preload("Agenda").Preload("Banks").
		First(&inv, "uid = ?", "legacy-wedding").Error)
	require.Equal(t, "Ravi", inv.GroomName)
	require.Len(t, inv.Agenda, 2)
	require.Len(t, inv.Banks, 1)
	require.Contains(t, string(inv.Audio), "autoplay")

	var wishes []models.Wish
	require.NoError(t, target.Order("created_at").Find(&wishes).Error)
	require.Len(t, wishes, 3)
	require.Equal(t, "First Guest", wishes[0].Name)
	require.True(t, wishes[0].CreatedAt.Before(wishes[2].CreatedAt))
}

func TestMigratorRequiresHandles(t *testing.T) {
	require.NoError(t, logger.Init("error"))

	_, err := New(nil, nil)
	require.Error(t, err)

	target := openNamedMemoryDB(t, "migration_target_only")
	_, err = New(nil, target)
	require.Error(t, err)
}
