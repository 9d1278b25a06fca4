// Package models defines the persisted schema: accounts, analysis reports
// and contact-form messages.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is an account row. Passwords are stored only as bcrypt hashes.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email_unique"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(50);default:'user'"`
	CreatedAt    time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt    time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// Report is one finished analysis. The pipeline outputs (classification,
// sections, requirements, keyword match) are stored as JSON payloads so the
// dashboard can render them without re-running the pipeline.
type Report struct {
	ReportID        string         `gorm:"type:char(36);primaryKey"`
	UserID          *uint          `gorm:"index:idx_reports_user_id"` // nullable, anonymous analyses allowed
	AnalysisType    string         `gorm:"type:varchar(50);not null;index:idx_reports_analysis_type"`
	Lang            string         `gorm:"type:varchar(5);not null;default:'en'"`
	CVObjectKey     string         `gorm:"type:varchar(1024)"` // archived original in object storage, empty for pasted text
	ReportText      string         `gorm:"type:mediumtext;not null"`
	UsedMock        bool           `gorm:"not null;default:false"`
	MatchPercentage *float64       `gorm:"type:decimal(5,1)"` // comparison analyses only
	Classification  datatypes.JSON `gorm:"type:json"`
	Sections        datatypes.JSON `gorm:"type:json"`
	Requirements    datatypes.JSON `gorm:"type:json"`
	Match           datatypes.JSON `gorm:"type:json"`
	Metrics         datatypes.JSON `gorm:"type:json"`
	CreatedAt       time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_reports_created_at"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Report) TableName() string {
	return "reports"
}

// ContactMessage is a contact-form submission. Rows are written before the
// email event is published so nothing is lost if the queue is down.
type ContactMessage struct {
	MessageID string    `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);not null"`
	Subject   string    `gorm:"type:varchar(500)"`
	Body      string    `gorm:"type:text;not null"`
	Sent      bool      `gorm:"not null;default:false;index:idx_contact_messages_sent"`
	CreatedAt time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}
