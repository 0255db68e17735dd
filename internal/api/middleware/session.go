package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/weddingplanner/internal/api/apierr"
	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/services/pairing"
	"github.com/mcoot/weddingplanner/internal/session"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	sessionContextKey  contextKey = "session"
)

// Session loads the request's session, resolves its member against current
// storage state and slides its expiry. Anonymous requests pass through with
// nothing in context; a member deleted since login resolves to no identity.
func Session(manager *session.Manager, pairingService *pairing.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := manager.Load(r)
			if err != nil {
				logger.Error("failed to load session", slog.String("error", err.Error()))
				apierr.WriteError(w, r, err)
				return
			}
			if data == nil {
				next.ServeHTTP(w, r)
				return
			}

			if err := manager.Touch(w, r); err != nil {
				if !errors.Is(err, session.ErrLifetimeExceeded) {
					logger.Error("failed to refresh session", slog.String("error", err.Error()))
					apierr.WriteError(w, r, err)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, data)

			if data.HasMember() {
				identity, err := pairingService.Resolve(r.Context(), data.MemberID)
				switch {
				case err == nil:
					ctx = context.WithValue(ctx, identityContextKey, identity)
				case errors.Is(err, model.ErrMemberNotFound), errors.Is(err, model.ErrCoupleNotFound):
					logger.Debug("session member no longer exists",
						slog.String("member_id", string(data.MemberID)),
					)
				default:
					logger.Error("failed to resolve session",
						slog.String("member_id", string(data.MemberID)),
						slog.String("error", err.Error()),
					)
					apierr.WriteError(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMember rejects requests without a resolved member
func RequireMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r.Context()) == nil {
			apierr.WriteError(w, r, model.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose session lacks the admin capability
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			apierr.WriteError(w, r, model.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetIdentity returns the resolved member, couple and partner, or nil
func GetIdentity(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityContextKey).(*model.Identity)
	return identity
}

// GetSession returns the session data from the request context, or nil
func GetSession(ctx context.Context) *model.SessionData {
	data, _ := ctx.Value(sessionContextKey).(*model.SessionData)
	return data
}

// IsAdmin reports whether the request session carries the admin capability
func IsAdmin(ctx context.Context) bool {
	data := GetSession(ctx)
	return data != nil && data.IsAdmin
}

// MustGetIdentity returns the resolved identity or panics
func MustGetIdentity(ctx context.Context) *model.Identity {
	identity := GetIdentity(ctx)
	if identity == nil {
		panic("no identity in context - RequireMember not applied?")
	}
	return identity
}
