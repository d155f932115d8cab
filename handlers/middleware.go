package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// StaffContextKey is the key used to store the staff object in the request context.
	StaffContextKey ContextKey = "staff"
)

// AuthMiddleware creates a middleware handler for JWT authentication.
// It verifies the token and, if valid, fetches the staff member and adds
// them to the request context.
func AuthMiddleware(staffRepo repository.StaffRepository, jwtSecret []byte, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtSecret, nil
		})

		if err != nil || !token.Valid {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
			return
		}

		var staffID uint
		if _, err := fmt.Sscan(claims.Subject, &staffID); err != nil {
			log.Printf("auth: error parsing staff ID from token subject '%s': %v", claims.Subject, err)
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid staff ID in token")
			return
		}

		staff, err := staffRepo.GetByID(staffID)
		if err != nil {
			// the account may have been deleted after the token was issued
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Staff account not found")
			return
		}

		ctx := context.WithValue(r.Context(), StaffContextKey, staff)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission is a middleware that checks if the authenticated staff
// member holds a specific permission. It should be used after AuthMiddleware.
func RequirePermission(requiredPermission string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staff, ok := r.Context().Value(StaffContextKey).(*models.Staff)
		if !ok || staff == nil {
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Staff not found in context")
			return
		}

		if !staff.HasPermission(requiredPermission) {
			WriteAPIError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("Requires permission '%s'", requiredPermission))
			return
		}

		next.ServeHTTP(w, r)
	})
}
