package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"daylog-api/identity"
	"daylog-api/models"
	"daylog-api/pkg/appenv"
	"daylog-api/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the HTTP-only cookie carrying the session token
// issued by the identity service.
const SessionCookieName = "daylog_session"

// sessionCookieMaxAge keeps sessions for 60 days, matching the identity
// service's own session lifetime.
const sessionCookieMaxAge = 60 * 24 * 60 * 60

// sessionToken extracts the session token from the Authorization header or,
// failing that, the session cookie. Browser clients use the cookie; API
// clients and tests use the bearer header.
func sessionToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}

// AuthMiddleware verifies the session token signature and expiry locally
// using the signing secret shared with the identity service, then injects
// the authenticated user into the context under "userId" and "user".
// Handlers behind this middleware never see an unauthenticated request.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := sessionToken(c)
		if raw == "" {
			c.JSON(http.StatusUnauthorized, types.NewErrorResponse("Authentication required"))
			c.Abort()
			return
		}
		token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, types.NewErrorResponse("Invalid session token"))
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, types.NewErrorResponse("Invalid session claims"))
			c.Abort()
			return
		}
		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			c.JSON(http.StatusUnauthorized, types.NewErrorResponse("Session token has no subject"))
			c.Abort()
			return
		}
		user := models.User{ID: userID}
		if email, ok := claims["email"].(string); ok {
			user.Email = email
		}
		if name, ok := claims["name"].(string); ok {
			user.Name = name
		}
		c.Set("userId", userID)
		c.Set("user", user)
		c.Next()
	}
}

// SessionsHandler proxies session lifecycle operations to the external
// identity service.
type SessionsHandler struct {
	identity *identity.Client
}

func NewSessionsHandler(client *identity.Client) *SessionsHandler {
	return &SessionsHandler{identity: client}
}

// GetOAuthRedirectURL returns the Google consent screen URL for the client
// to navigate to.
func (h *SessionsHandler) GetOAuthRedirectURL(c *gin.Context) {
	redirectURL, err := h.identity.GetOAuthRedirectURL(c.Request.Context(), "google")
	if err != nil {
		slog.Error("failed to fetch oauth redirect url", "err", err)
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to get redirect URL"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirectUrl": redirectURL})
}

// CreateSession exchanges an OAuth authorization code for a session token
// and stores it in an HTTP-only cookie.
func (h *SessionsHandler) CreateSession(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("No authorization code provided"))
		return
	}
	token, err := h.identity.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		slog.Error("session exchange failed", "err", err)
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to create session"))
		return
	}
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookieName, token, sessionCookieMaxAge, "/", "", appenv.IsProduction(), true)
	c.JSON(http.StatusOK, types.NewSuccessResponse())
}

// Me returns the authenticated user's profile from the session claims.
func (h *SessionsHandler) Me(c *gin.Context) {
	user := c.MustGet("user").(models.User)
	c.JSON(http.StatusOK, user)
}

// Logout revokes the session upstream when a cookie is present and clears
// the cookie either way. Revocation failures are logged, not surfaced.
func (h *SessionsHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		if err := h.identity.DeleteSession(c.Request.Context(), token); err != nil {
			slog.Error("session revocation failed", "err", err)
		}
	}
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", appenv.IsProduction(), true)
	c.JSON(http.StatusOK, types.NewSuccessResponse())
}
