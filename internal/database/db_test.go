package database

import (
	"testing"

	"gorm.io/gorm"

	"github.com/sakeenah/sakeenah/internal/models"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)

	if err := db.Exec("SELECT 1").Error; err != nil {
		t.Fatalf("expected health query to succeed: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "oracle"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestAutoMigrateAndSeedData(t *testing.T) {
	db := openTestDB(t)

	if err := AutoMigrateAndSeed(db); err != nil {
		t.Fatalf("auto migrate and seed failed: %v", err)
	}

	var invitation models.Invitation
	if err := db.Where("uid = ?", DefaultInvitationUID).First(&invitation).Error; err != nil {
		t.Fatalf("expected seeded invitation: %v", err)
	}
	if invitation.GroomName != "Prashant" {
		t.Fatalf("unexpected groom name: %s", invitation.GroomName)
	}

	var agendaCount int64
	if err := db.Model(&models.AgendaItem{}).Where("invitation_uid = ?", DefaultInvitationUID).Count(&agendaCount).Error; err != nil {
		t.Fatalf("count agenda: %v", err)
	}
	if agendaCount != 2 {
		t.Fatalf("expected 2 agenda items, got %d", agendaCount)
	}

	var wishCount int64
	if err := db.Model(&models.Wish{}).Where("invitation_uid = ?", DefaultInvitationUID).Count(&wishCount).Error; err != nil {
		t.Fatalf("count wishes: %v", err)
	}
	if wishCount != 3 {
		t.Fatalf("expected 3 sample wishes, got %d", wishCount)
	}

	// Seeding again must not duplicate anything.
	if err := SeedData(db); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	var after int64
	if err := db.Model(&models.Wish{}).Count(&after).Error; err != nil {
		t.Fatalf("recount wishes: %v", err)
	}
	if after != wishCount {
		t.Fatalf("seed is not idempotent: %d -> %d wishes", wishCount, after)
	}
}

func TestAutoMigrateCreatesWishUniqueIndex(t *testing.T) {
	db := openTestDB(t)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	if !db.Migrator().HasIndex(&models.Wish{}, "idx_wishes_invitation_name") {
		t.Fatal("expected composite unique index on (invitation_uid, name)")
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
