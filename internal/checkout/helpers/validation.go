package helpers

import (
	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/google/uuid"
)

// ValidateCartForCheckout ensures the cart belongs to the caller and is still
// convertible. A cart already converted by an earlier checkout is a state
// conflict, not a validation failure.
func ValidateCartForCheckout(cart *models.Cart, userID uuid.UUID) error {
	if cart == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	if cart.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cart does not belong to caller")
	}
	if cart.Status != enums.CartStatusActive {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is no longer active")
	}
	if len(cart.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	return nil
}
