package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/pkg/enums"
)

// Review attaches to a restaurant or a menu item, discriminated by
// TargetKind, so the two-nullable-foreign-keys invalid states cannot exist.
// One review per (user, target kind, target id), refreshed on conflict.
type Review struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID              `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uniq_reviews_user_target"`
	TargetKind enums.ReviewTargetKind `gorm:"column:target_kind;type:text;not null;uniqueIndex:uniq_reviews_user_target"`
	TargetID   uuid.UUID              `gorm:"column:target_id;type:uuid;not null;uniqueIndex:uniq_reviews_user_target"`
	Rating     int                    `gorm:"column:rating;not null"`
	Comment    *string                `gorm:"column:comment"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
