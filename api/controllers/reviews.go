package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/api/middleware"
	"github.com/campuseats/campuseats-backend/api/responses"
	"github.com/campuseats/campuseats-backend/api/validators"
	"github.com/campuseats/campuseats-backend/internal/reviews"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/logger"
)

type reviewUpsertRequest struct {
	TargetKind string    `json:"target_kind" validate:"required"`
	TargetID   uuid.UUID `json:"target_id" validate:"required"`
	Rating     int       `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string   `json:"comment"`
}

// ReviewUpsert writes the caller's review for a restaurant or menu item,
// replacing any earlier review of the same target.
func ReviewUpsert(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}
		identity, err := middleware.IdentityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload reviewUpsertRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind, err := enums.ParseReviewTargetKind(payload.TargetKind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid review target kind"))
			return
		}

		review, err := svc.Upsert(r.Context(), identity.UserID, reviews.UpsertInput{
			Target:  reviews.Target{Kind: kind, ID: payload.TargetID},
			Rating:  payload.Rating,
			Comment: payload.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, review)
	}
}

// ReviewList returns the reviews for one target, newest first.
func ReviewList(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		kind, err := enums.ParseReviewTargetKind(strings.TrimSpace(r.URL.Query().Get("target_kind")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid review target kind"))
			return
		}
		targetID, err := uuid.Parse(strings.TrimSpace(r.URL.Query().Get("target_id")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid review target id"))
			return
		}

		rows, err := svc.ListForTarget(r.Context(), reviews.Target{Kind: kind, ID: targetID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
