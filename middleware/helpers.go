package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Dosada05/league-system/services"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const (
	userContextKey   contextKey = "user"
	localeContextKey contextKey = "locale"
)

var ErrNoUser = errors.New("user claims not found in context or invalid type")

// WithClaims stores authenticated claims the way Authenticate does.
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, ErrNoUser
	}

	userIDClaim, ok := claims[services.ClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", services.ClaimUserID)
	}

	var userID int
	switch v := userIDClaim.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("'%s' claim is not an integer: %f", services.ClaimUserID, v)
		}
		userID = int(v)
	case int:
		userID = v
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid '%s' claim: %q", services.ClaimUserID, v)
		}
		userID = id
	default:
		return 0, fmt.Errorf("invalid type for '%s' claim: expected number or string, got %T", services.ClaimUserID, userIDClaim)
	}

	if userID <= 0 {
		return 0, fmt.Errorf("invalid user ID value in '%s' claim: %d", services.ClaimUserID, userID)
	}
	return userID, nil
}

func IsStaffFromContext(ctx context.Context) bool {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return false
	}
	staff, _ := claims[services.ClaimStaff].(bool)
	return staff
}

// ActorFromContext builds the service actor of an authenticated request.
func ActorFromContext(ctx context.Context) (services.Actor, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return services.Actor{}, err
	}
	return services.Actor{UserID: userID, IsStaff: IsStaffFromContext(ctx)}, nil
}
