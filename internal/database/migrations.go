package database

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/sakeenah/sakeenah/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Invitation{},
		&models.AgendaItem{},
		&models.BankAccount{},
		&models.Wish{},
	)
}

// DefaultInvitationUID identifies the invitation inserted by SeedData.
const DefaultInvitationUID = "prashant-sujata-2025"

// SeedData inserts the default invitation with its agenda, bank accounts and
// a few sample wishes. Inserts use FirstOrCreate so repeated start-ups are
// idempotent.
func SeedData(db *gorm.DB) error {
	audio, err := json.Marshal(models.AudioSettings{
		Src:      "/audio/fulfilling-humming.mp3",
		Title:    "Fulfilling Humming",
		Autoplay: true,
		Loop:     true,
	})
	if err != nil {
		return err
	}

	invitation := models.Invitation{
		UID:         DefaultInvitationUID,
		Title:       "Prashant & Sujata",
		Description: "With joyful hearts, we invite you to celebrate the wedding of Prashant & Sujata.",
		GroomName:   "Prashant",
		BrideName:   "Sujata",
		ParentGroom: "Mr Groom & Mrs Groom",
		ParentBride: "Mr Bride & Mrs Bride",
		WeddingDate: "2025-06-19",
		Time:        "To be announced",
		Location:    "Venue to be announced",
		Address:     "Address to be announced",
		MapsURL:     "https://goo.gl/maps/example",
		MapsEmbed:   "https://www.google.com/maps/embed?pb=example",
		OGImage:     "/images/og-image.jpg",
		Favicon:     "/images/favicon.ico",
		Audio:       audio,
	}

	if err := db.Where(models.Invitation{UID: invitation.UID}).
		Attrs(invitation).
		FirstOrCreate(&models.Invitation{}).Error; err != nil {
		return err
	}

	agenda := []models.AgendaItem{
		{
			InvitationUID: DefaultInvitationUID,
			Title:         "Ceremony",
			Date:          "2025-06-19",
			StartTime:     "10:00 AM",
			EndTime:       "11:30 AM",
			Location:      "Main Hall",
			Address:       "123 Wedding Street",
		},
		{
			InvitationUID: DefaultInvitationUID,
			Title:         "Reception",
			Date:          "2025-06-19",
			StartTime:     "12:00 PM",
			EndTime:       "6:00 PM",
			Location:      "Banquet Hall",
			Address:       "123 Wedding Street",
		},
	}
	for _, item := range agenda {
		if err := db.Where(models.AgendaItem{InvitationUID: item.InvitationUID, Title: item.Title}).
			Attrs(item).
			FirstOrCreate(&models.AgendaItem{}).Error; err != nil {
			return err
		}
	}

	bank := models.BankAccount{
		InvitationUID: DefaultInvitationUID,
		Bank:          "Example Bank",
		AccountNumber: "1234567890",
		AccountName:   "Prashant & Sujata Wedding",
	}
	if err := db.Where(models.BankAccount{InvitationUID: bank.InvitationUID, AccountNumber: bank.AccountNumber}).
		Attrs(bank).
		FirstOrCreate(&models.BankAccount{}).Error; err != nil {
		return err
	}

	wishes := []models.Wish{
		{InvitationUID: DefaultInvitationUID, Name: "John Doe", Message: "Wishing you both a lifetime of happiness!", Attendance: models.AttendanceAttending},
		{InvitationUID: DefaultInvitationUID, Name: "Jane Smith", Message: "Congratulations on your wedding!", Attendance: models.AttendanceAttending},
		{InvitationUID: DefaultInvitationUID, Name: "Bob Johnson", Message: "May your love grow stronger every day!", Attendance: models.AttendanceMaybe},
	}
	for _, wish := range wishes {
		if err := db.Where(models.Wish{InvitationUID: wish.InvitationUID, Name: wish.Name}).
			Attrs(wish).
			FirstOrCreate(&models.Wish{}).Error; err != nil {
			return err
		}
	}

	return nil
}
