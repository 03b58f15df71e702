// Package domain contains the patient registry models.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Patient struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"not null" json:"name"`
	Phone     string            `gorm:"type:text" json:"phone,omitempty"`
	Email     string            `gorm:"type:text" json:"email,omitempty"`
	BranchID  string            `gorm:"type:text;index" json:"branch_id,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Patient) TableName() string { return "patients" }

type CreatePatientRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	BranchID string `json:"branch_id,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreatePatientRequest) (Patient, error)
	GetByID(ctx context.Context, id snowflake.ID) (Patient, error)
	List(ctx context.Context) ([]Patient, error)
}

var (
	ErrNotFound    = errors.New("patient_not_found")
	ErrInvalidName = errors.New("invalid_patient_name")
)
