package types

import (
	"context"
	"time"
)

// Status is the lifecycle status shared by all entities. Entities are never
// physically deleted by the services; they move to archived or deleted.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

// BaseModel carries the common audit columns embedded in every entity.
type BaseModel struct {
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

// GetDefaultBaseModel returns a BaseModel initialized from the context.
func GetDefaultBaseModel(ctx context.Context) BaseModel {
	now := time.Now().UTC()
	user := GetUserID(ctx)
	return BaseModel{
		Status:    StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: user,
		UpdatedBy: user,
	}
}

// Metadata is a free-form string map attached to entities and transactions.
type Metadata map[string]string
