package models

import (
	"gorm.io/datatypes"
)

// Invitation is the top-level record for one wedding event. It is written at
// seed/creation time and treated as read-only by the API afterwards.
type Invitation struct {
	BaseModel

	UID         string `gorm:"type:varchar(64);uniqueIndex;not null" json:"uid"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	GroomName   string `gorm:"type:varchar(128)" json:"groom_name"`
	BrideName   string `gorm:"type:varchar(128)" json:"bride_name"`
	ParentGroom string `gorm:"type:varchar(255)" json:"parent_groom"`
	ParentBride string `gorm:"type:varchar(255)" json:"parent_bride"`

	WeddingDate string `gorm:"type:varchar(32)" json:"wedding_date"`
	Time        string `gorm:"type:varchar(64)" json:"time"`
	Location    string `gorm:"type:varchar(255)" json:"location"`
	Address     string `gorm:"type:text" json:"address"`
	MapsURL     string `gorm:"type:text" json:"maps_url"`
	MapsEmbed   string `gorm:"type:text" json:"maps_embed"`

	OGImage string `gorm:"type:varchar(512)" json:"og_image"`
	Favicon string `gorm:"type:varchar(512)" json:"favicon"`

	// Audio holds the background music settings (src/title/autoplay/loop).
	Audio datatypes.JSON `json:"audio"`

	Agenda []AgendaItem  `gorm:"foreignKey:InvitationUID;references:UID;constraint:OnDelete:CASCADE" json:"agenda"`
	Banks  []BankAccount `gorm:"foreignKey:InvitationUID;references:UID;constraint:OnDelete:CASCADE" json:"banks"`
}

// AudioSettings mirrors the JSON stored in Invitation.Audio.
type AudioSettings struct {
	Src      string `json:"src"`
	Title    string `json:"title"`
	Autoplay bool   `json:"autoplay"`
	Loop     bool   `json:"loop"`
}

// AgendaItem is one scheduled event belonging to an invitation. Display order
// follows insertion order; there is no explicit sort key.
type AgendaItem struct {
	BaseModel

	InvitationUID string `gorm:"type:varchar(64);not null;index" json:"invitation_uid"`
	Title         string `gorm:"type:varchar(255);not null" json:"title"`
	Date          string `gorm:"type:varchar(32)" json:"date"`
	StartTime     string `gorm:"type:varchar(32)" json:"start_time"`
	EndTime       string `gorm:"type:varchar(32)" json:"end_time"`
	Location      string `gorm:"type:varchar(255)" json:"location"`
	Address       string `gorm:"type:text" json:"address"`
}

// BankAccount is a gift/digital-envelope account shown on an invitation.
type BankAccount struct {
	BaseModel

	InvitationUID string `gorm:"type:varchar(64);not null;index" json:"invitation_uid"`
	Bank          string `gorm:"type:varchar(128);not null" json:"bank"`
	AccountNumber string `gorm:"type:varchar(64);not null" json:"account_number"`
	AccountName   string `gorm:"type:varchar(255);not null" json:"account_name"`
}
