// Package dispatch holds the outbound links of the request pipeline: they
// decorate a request before it reaches the transport and never block it.
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/waabox/catalogdeck/internal/graphql"
)

// HeaderRequestID carries a per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// TokenSource yields the current credential.
type TokenSource interface {
	Get() (string, bool)
}

// Bearer attaches "Authorization: Bearer <token>" when src holds a
// credential and sends the request without the header otherwise. The token
// is read per request, so a credential stored or cleared mid-session applies
// to the next request.
func Bearer(src TokenSource) graphql.Middleware {
	return func(next graphql.Handler) graphql.Handler {
		return graphql.HandlerFunc(func(ctx context.Context, req *graphql.Request) (*graphql.Response, error) {
			out := req.Clone()
			if token, ok := src.Get(); ok {
				out.Header.Set("Authorization", "Bearer "+token)
			} else {
				out.Header.Del("Authorization")
			}
			return next.Do(ctx, out)
		})
	}
}

// RequestID stamps each request with a fresh UUID unless one is already set.
func RequestID() graphql.Middleware {
	return func(next graphql.Handler) graphql.Handler {
		return graphql.HandlerFunc(func(ctx context.Context, req *graphql.Request) (*graphql.Response, error) {
			if req.Header != nil && req.Header.Get(HeaderRequestID) != "" {
				return next.Do(ctx, req)
			}
			out := req.Clone()
			out.Header.Set(HeaderRequestID, uuid.NewString())
			return next.Do(ctx, out)
		})
	}
}

// Logging records each exchange at debug level.
func Logging(log *zap.Logger) graphql.Middleware {
	return func(next graphql.Handler) graphql.Handler {
		return graphql.HandlerFunc(func(ctx context.Context, req *graphql.Request) (*graphql.Response, error) {
			start := time.Now()
			resp, err := next.Do(ctx, req)
			log.Debug("graphql exchange",
				zap.String("operation", req.OperationName),
				zap.String("request_id", req.Header.Get(HeaderRequestID)),
				zap.Duration("elapsed", time.Since(start)),
				zap.Bool("failed", err != nil),
			)
			return resp, err
		})
	}
}
