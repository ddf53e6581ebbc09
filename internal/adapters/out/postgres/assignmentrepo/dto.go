// Package assignmentrepo provides data transfer objects and mapping functions
// for the assignment ledger. Ledger rows are append-only; the only mutation
// the repository performs is voiding a superseded decision.
package assignmentrepo

import (
	"time"

	"mealmatch/internal/core/domain/model/assignment"
	"mealmatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database structure for persisting assignment
// ledger records.
type AssignmentDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProviderID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time  `gorm:"type:timestamptz;not null"`
	Rationale  string     `gorm:"type:text"`
	Voided     bool       `gorm:"type:boolean;not null;default:false"`
	VoidedAt   *time.Time `gorm:"type:timestamptz"`
}

// TableName specifies the database table name for assignment entities.
// Overrides GORM's default naming convention to use "assignments" instead of "assignment_dtos".
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// fromDomain converts an assignment entity to its database representation.
func fromDomain(a *assignment.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:         a.ID().Bytes(),
		OrderID:    a.OrderID().Bytes(),
		ProviderID: a.ProviderID().Bytes(),
		CreatedAt:  a.CreatedAt(),
		Rationale:  a.Rationale(),
		Voided:     !a.IsActive(),
		VoidedAt:   a.VoidedAt(),
	}
}

// toDomain converts a database DTO to an assignment entity.
// Reconstructs the record using RestoreAssignment.
func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	providerID, err := kernel.UUIDFromBytes(dto.ProviderID[:])
	if err != nil {
		return nil, err
	}

	return assignment.RestoreAssignment(
		id,
		orderID,
		providerID,
		dto.CreatedAt,
		dto.Rationale,
		dto.Voided,
		dto.VoidedAt,
	)
}
