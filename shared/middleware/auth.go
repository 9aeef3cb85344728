package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/threadkeep/threadkeep/shared/domain"
	jwt_internal "github.com/threadkeep/threadkeep/shared/jwt"
	"github.com/threadkeep/threadkeep/shared/logger"
	"github.com/threadkeep/threadkeep/shared/utils"
)

// Key to store the member claims in the request context
type key int

const MemberClaimsKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService    jwt_internal.JwtService
	secureCookies bool
}

func NewAuth(jwtService jwt_internal.JwtService, secureCookies bool) *Auth {
	return &Auth{
		jwtService:    jwtService,
		secureCookies: secureCookies,
	}
}

// NeedAuth returns middleware that requires a valid member token
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly returns middleware that requires an admin token
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// OptionalAuth populates member context if a valid token is present, but doesn't require it
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			member, _ := a.extractMember(r)
			if member != nil {
				ctx := context.WithValue(r.Context(), MemberClaimsKey, member)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractMember extracts and validates the member from the JWT token in the request.
// Returns (member, nil) on success, (nil, error) on failure
func (a *Auth) extractMember(r *http.Request) (*domain.Member, error) {
	// Try to get token from cookie first (for browser clients)
	var tokenString string
	accessCookie, err := r.Cookie("accessToken")
	if err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		// If no cookie, try Authorization header (for API clients)
		tokenString = token
	}

	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidClaims
	}

	mid, ok := claims["mid"].(string)
	if !ok {
		return nil, errInvalidClaims
	}

	nickname, ok := claims["nickname"].(string)
	if !ok {
		return nil, errInvalidClaims
	}

	isAdmin, ok := claims["admin"].(bool)
	if !ok {
		return nil, errInvalidClaims
	}

	return &domain.Member{
		Id:       mid,
		Nickname: nickname,
		Admin:    isAdmin,
	}, nil
}

// Sentinel errors for extractMember
var (
	errNoToken       = errorString("no token")
	errInvalidClaims = errorString("invalid claims")
)

type errorString string

func (e errorString) Error() string { return string(e) }

// auth is the internal method that implements the authentication logic
func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			member, err := a.extractMember(r)
			if err != nil {
				switch err {
				case errNoToken:
					http.Error(w, "Please sign-in", http.StatusUnauthorized)
				case errInvalidClaims:
					logger.Log.Error("invalid jwt claims")
					http.Error(w, "Invalid token", http.StatusUnauthorized)
				default:
					// Token decode error
					utils.WriteErrorAndStatusCode(w, err)
				}
				return
			}

			if adminOnly && !member.Admin {
				http.Error(w, "Access denied. Only for admin", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), MemberClaimsKey, member)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetMemberFromContext retrieves the authenticated member from the context
func GetMemberFromContext(r *http.Request) *domain.Member {
	member, ok := r.Context().Value(MemberClaimsKey).(*domain.Member)
	if !ok {
		return nil
	}
	return member
}
