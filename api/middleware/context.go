package middleware

import (
	"context"

	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/google/uuid"
)

type contextKey string

const (
	ctxUserID       contextKey = "user_id"
	ctxRole         contextKey = "actor_role"
	ctxRestaurantID contextKey = "restaurant_id"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func RestaurantIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRestaurantID).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithRestaurantID injects the admin restaurant scope into the context.
func WithRestaurantID(ctx context.Context, restaurantID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRestaurantID, restaurantID)
}

// Identity is the resolved authenticated caller.
type Identity struct {
	UserID       uuid.UUID
	Role         enums.UserRole
	RestaurantID *uuid.UUID
}

// IdentityFromContext rebuilds the typed identity the auth middleware seeded.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	raw := UserIDFromContext(ctx)
	if raw == "" {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	role, err := enums.ParseUserRole(RoleFromContext(ctx))
	if err != nil {
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor role")
	}
	identity := Identity{UserID: userID, Role: role}
	if raw := RestaurantIDFromContext(ctx); raw != "" {
		restaurantID, err := uuid.Parse(raw)
		if err != nil {
			return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid restaurant scope")
		}
		identity.RestaurantID = &restaurantID
	}
	return identity, nil
}
