package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/platform/config"
	"github.com/jsamuelsen11/taskboard-service/internal/platform/logging"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

const bearerPrefix = "bearer "

type actorKey struct{}

// WithActor returns a new context carrying the acting user.
func WithActor(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, actorKey{}, u)
}

// ActorFromContext returns the acting user, or nil for anonymous requests.
func ActorFromContext(ctx context.Context) *user.User {
	u, _ := ctx.Value(actorKey{}).(*user.User)
	return u
}

// Claims are the token claims the service reads. Email identifies the actor.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenVerifier checks HS256 bearer tokens minted with the shared secret.
type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience string
	parser   *jwt.Parser
}

// NewTokenVerifier builds a verifier from the auth settings. Empty issuer
// or audience settings skip the matching check.
func NewTokenVerifier(cfg *config.AuthConfig) *TokenVerifier {
	return &TokenVerifier{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		parser:   jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Verify parses and validates a raw token and returns its email claim.
func (v *TokenVerifier) Verify(raw string) (string, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return "", fmt.Errorf("%w: invalid issuer", domain.ErrUnauthenticated)
	}
	if v.audience != "" && !claims.VerifyAudience(v.audience, true) {
		return "", fmt.Errorf("%w: invalid audience", domain.ErrUnauthenticated)
	}
	if strings.TrimSpace(claims.Email) == "" {
		return "", fmt.Errorf("%w: token has no email claim", domain.ErrUnauthenticated)
	}
	return claims.Email, nil
}

// Identity returns middleware that authenticates the bearer token, resolves
// its email to a user and stores that user in the request context.
//
// Requests without an Authorization header pass through anonymously; the
// services decide whether an anonymous caller may proceed. A present but
// invalid token, or one naming an unknown user, is answered with 401.
func Identity(verifier *TokenVerifier, resolver ports.IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			actor, err := authenticate(ctx, verifier, resolver, header)
			if err != nil {
				logging.FromContext(ctx).WarnContext(ctx, "authentication failed", slog.Any("error", err))
				if errors.Is(err, domain.ErrUnauthenticated) {
					w.Header().Set("WWW-Authenticate", `Bearer realm="taskboard"`)
				}
				dto.WriteErrorResponse(w, r, err)
				return
			}

			noteActor(ctx, actor.ID)
			ctx = logging.WithAttrs(WithActor(ctx, actor), slog.Int64("actor_id", actor.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(
	ctx context.Context, verifier *TokenVerifier, resolver ports.IdentityResolver, header string,
) (*user.User, error) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return nil, fmt.Errorf("%w: malformed authorization header", domain.ErrUnauthenticated)
	}

	email, err := verifier.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
	if err != nil {
		return nil, err
	}
	return resolver.ResolveActor(ctx, email)
}
