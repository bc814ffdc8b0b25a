package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxCommentLength = 2000

type targetCatalog interface {
	FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	FindMenuItemDetail(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
}

// Target names what a review attaches to.
type Target struct {
	Kind enums.ReviewTargetKind
	ID   uuid.UUID
}

// UpsertInput is the caller-supplied review payload.
type UpsertInput struct {
	Target  Target
	Rating  int
	Comment *string
}

// ReviewDTO is the read model returned to clients.
type ReviewDTO struct {
	ID        uuid.UUID              `json:"id"`
	UserID    uuid.UUID              `json:"user_id"`
	Kind      enums.ReviewTargetKind `json:"target_kind"`
	TargetID  uuid.UUID              `json:"target_id"`
	Rating    int                    `json:"rating"`
	Comment   *string                `json:"comment,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Service exposes review writes and target-scoped reads.
type Service interface {
	Upsert(ctx context.Context, userID uuid.UUID, input UpsertInput) (*ReviewDTO, error)
	ListForTarget(ctx context.Context, target Target) ([]ReviewDTO, error)
}

type service struct {
	repo    Repository
	catalog targetCatalog
}

// NewService constructs a reviews service instance.
func NewService(repo Repository, catalog targetCatalog) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("target catalog required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

func (s *service) Upsert(ctx context.Context, userID uuid.UUID, input UpsertInput) (*ReviewDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if err := s.validateTarget(ctx, input.Target); err != nil {
		return nil, err
	}

	comment := normalizeComment(input.Comment)
	if comment != nil && len(*comment) > maxCommentLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment is too long")
	}

	review := &models.Review{
		UserID:     userID,
		TargetKind: input.Target.Kind,
		TargetID:   input.Target.ID,
		Rating:     input.Rating,
		Comment:    comment,
	}
	saved, err := s.repo.Upsert(ctx, review)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert review")
	}
	dto := toReviewDTO(*saved)
	return &dto, nil
}

func (s *service) ListForTarget(ctx context.Context, target Target) ([]ReviewDTO, error) {
	if err := s.validateTarget(ctx, target); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByTarget(ctx, target.Kind, target.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reviews")
	}
	out := make([]ReviewDTO, len(rows))
	for i, row := range rows {
		out[i] = toReviewDTO(row)
	}
	return out, nil
}

// validateTarget confirms the kind is known and the row it names exists.
func (s *service) validateTarget(ctx context.Context, target Target) error {
	if !target.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid review target kind")
	}
	if target.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "review target id is required")
	}

	var err error
	switch target.Kind {
	case enums.ReviewTargetRestaurant:
		_, err = s.catalog.FindRestaurantByID(ctx, target.ID)
	case enums.ReviewTargetMenuItem:
		_, err = s.catalog.FindMenuItemDetail(ctx, target.ID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review target not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup review target")
	}
	return nil
}

func normalizeComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toReviewDTO(review models.Review) ReviewDTO {
	return ReviewDTO{
		ID:        review.ID,
		UserID:    review.UserID,
		Kind:      review.TargetKind,
		TargetID:  review.TargetID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}
