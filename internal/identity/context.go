package identity

import "context"

type ctxKey string

const (
	ctxSellerIDKey  ctxKey = "seller_id"
	ctxRoleKey      ctxKey = "role"
	ctxSessionIDKey ctxKey = "session_id"
)

// WithSeller marks ctx as authenticated for sellerID.
func WithSeller(ctx context.Context, sellerID string, role string) context.Context {
	ctx = context.WithValue(ctx, ctxSellerIDKey, sellerID)
	ctx = context.WithValue(ctx, ctxRoleKey, role)
	return ctx
}

func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ctxSessionIDKey, sessionID)
}

func SellerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxSellerIDKey).(string)
	return id, ok && id != ""
}

func Role(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(ctxRoleKey).(string)
	return role, ok
}

func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxSessionIDKey).(string)
	return id, ok && id != ""
}

// CanUpdateSettings is the settings policy: sellers and admins may update,
// support staff may only read.
func CanUpdateSettings(ctx context.Context) bool {
	role, _ := Role(ctx)
	return role == "seller" || role == "admin"
}
