package reviews

import (
	"context"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/google/uuid"
)

// Repository defines persistence operations for reviews.
type Repository interface {
	Upsert(ctx context.Context, review *models.Review) (*models.Review, error)
	FindByUserAndTarget(ctx context.Context, userID uuid.UUID, kind enums.ReviewTargetKind, targetID uuid.UUID) (*models.Review, error)
	ListByTarget(ctx context.Context, kind enums.ReviewTargetKind, targetID uuid.UUID) ([]models.Review, error)
}
