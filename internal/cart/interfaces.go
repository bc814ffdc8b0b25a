package cart

import (
	"context"

	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository defines persistence operations for carts and their lines.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindActiveCartByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	UpdateCartStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error
	FindLineByID(ctx context.Context, lineID uuid.UUID) (*models.CartItem, error)
	FindLineByKey(ctx context.Context, cartID uuid.UUID, lineKey string) (*models.CartItem, error)
	CreateLine(ctx context.Context, line *models.CartItem) (*models.CartItem, error)
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	DeleteLinesByCart(ctx context.Context, cartID uuid.UUID) error
}
