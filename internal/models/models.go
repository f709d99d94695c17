package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Issue status values accepted by the API
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// AppConfig represents the global configuration for a single deployment
// This is a singleton model (only one row should exist)
type AppConfig struct {
	BaseModel
	// Auto-generated on first setup (64 hex chars)
	JWTSecret string `json:"-" gorm:"type:varchar(64);not null"`
}

// User represents a local user account (self-hosted, no external auth)
type User struct {
	BaseModel
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name"`
	IsAdmin      bool      `json:"is_admin" gorm:"not null;default:false"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Label represents an issue label
type Label struct {
	BaseModel
	Name  string `json:"name" gorm:"unique;not null"`
	Color string `json:"color" gorm:"not null;default:'#cccccc'"` // Hex color used by the frontend
}

// Issue represents a tracked bug or task
type Issue struct {
	BaseModel
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Status      string    `json:"status" gorm:"not null;default:'open'"`
	Priority    string    `json:"priority" gorm:"not null;default:'medium'"`
	AssigneeID  string    `json:"assignee_id"`
	CreatedByID string    `json:"created_by_id" gorm:"not null"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships. AssigneeID may be empty (unassigned), so these are not
	// enforced as database constraints.
	Assignee  *User `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID;references:ID"`
	CreatedBy *User `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID;references:ID"`
}

// Resolved reports whether the issue has reached a terminal status
func (i *Issue) Resolved() bool {
	return i.Status == StatusResolved || i.Status == StatusClosed
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&User{}, &AppConfig{}, &Label{}, &Issue{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}
