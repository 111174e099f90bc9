package auth

import (
	"context"

	"google.golang.org/grpc/metadata"
)

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// GetCashier returns the name of whoever is operating the terminal: the
// session in ctx first, then the x-cashier-name metadata of a gRPC call.
func GetCashier(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok {
		if name := s.Cashier(); name != "" {
			return name
		}
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get("x-cashier-name"); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}
