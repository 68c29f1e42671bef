package middleware

import (
	"net/http"
	"strings"

	"boutique/internal/apierror"
	"boutique/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey       = "claims"
	ClientClaimsKey = "client_claims"
)

// JWTClaims are the custom claims embedded in every admin access token.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

// ClientClaims are carried by storefront customer tokens.
type ClientClaims struct {
	ClientID string `json:"client_id"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

// bearer reads the Authorization header. Browsers cannot set headers on a
// websocket handshake, so an access_token query parameter is accepted on
// upgrade requests only.
func bearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer "), true
	}
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		if token := c.Query("access_token"); token != "" {
			return token, true
		}
	}
	return "", false
}

func parse(secret, raw string, claims jwt.Claims) bool {
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	return err == nil && token.Valid
}

// JWTAuth validates the admin Bearer token on every back-office route.
// Refresh and customer tokens are rejected.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Authentification requise"))
			return
		}
		claims := &JWTClaims{}
		if !parse(secret, raw, claims) || claims.Kind != service.TokenAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Jeton invalide ou expiré"))
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// ClientJWTAuth validates a storefront customer token.
func ClientJWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Authentification requise"))
			return
		}
		claims := &ClientClaims{}
		if !parse(secret, raw, claims) || claims.Kind != service.TokenClient {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Jeton invalide ou expiré"))
			return
		}
		if _, err := uuid.Parse(claims.ClientID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Jeton invalide ou expiré"))
			return
		}
		c.Set(ClientClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose JWT role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || !allowed[claims.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permissions insuffisantes"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}

// GetClientID returns the authenticated customer id. ClientJWTAuth has
// already checked that it parses.
func GetClientID(c *gin.Context) uuid.UUID {
	claims, _ := c.MustGet(ClientClaimsKey).(*ClientClaims)
	id, _ := uuid.Parse(claims.ClientID)
	return id
}
