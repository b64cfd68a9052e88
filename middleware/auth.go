package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	clerkuser "github.com/clerk/clerk-sdk-go/v2/user"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const UserIDKey contextKey = "userID"

var ErrEmailNotVerified = errors.New("email not verified")

// Identity is the authenticated caller.
type Identity struct {
	UID           string
	EmailVerified bool
}

// IdentityVerifier turns a bearer token into an Identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ClerkVerifier checks Clerk session tokens. clerk.SetKey must be called first.
// With CheckEmail set the user is fetched to read the primary email status.
type ClerkVerifier struct {
	CheckEmail bool
}

func (v ClerkVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := jwt.Verify(ctx, &jwt.VerifyParams{Token: token})
	if err != nil {
		return nil, err
	}
	id := &Identity{UID: claims.Subject}
	if !v.CheckEmail {
		id.EmailVerified = true
		return id, nil
	}

	u, err := clerkuser.Get(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("get clerk user: %w", err)
	}
	for _, e := range u.EmailAddresses {
		if e == nil || e.Verification == nil {
			continue
		}
		if u.PrimaryEmailAddressID != nil && e.ID != *u.PrimaryEmailAddressID {
			continue
		}
		id.EmailVerified = e.Verification.Status == "verified"
		break
	}
	return id, nil
}

// FirebaseVerifier checks Firebase Auth ID tokens.
type FirebaseVerifier struct {
	Client *firebaseauth.Client
}

func (v FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	t, err := v.Client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}
	verified, _ := t.Claims["email_verified"].(bool)
	return &Identity{UID: t.UID, EmailVerified: verified}, nil
}

// AuthMiddleware validates the bearer token and puts the user id into the
// request context. Unverified emails get 403 when requireVerified is set.
func AuthMiddleware(verifier IdentityVerifier, requireVerified bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondWithError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader || token == "" {
				respondWithError(w, http.StatusUnauthorized, "Invalid authorization format. Use 'Bearer <token>'")
				return
			}

			id, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Warnf("Auth: token verification failed: %v", err)
				respondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			if requireVerified && !id.EmailVerified {
				log.Infof("Auth: rejected %s: %v", id.UID, ErrEmailNotVerified)
				respondWithError(w, http.StatusForbidden, "Please verify your email address")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, id.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, UserIDKey, uid)
}

// GetUserID extracts the authenticated user id from context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
