package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Arieh-code/task-managment-project/internal/auth"
	"github.com/Arieh-code/task-managment-project/internal/dto"
	"github.com/Arieh-code/task-managment-project/internal/service"

	"github.com/gin-gonic/gin"
)

// TokenHandler implements the credential-exchange contract: POST /token trades
// username/password for an access+refresh pair, POST /token/refresh trades an
// allow-listed refresh token for a fresh access token.
type TokenHandler struct {
	userSvc *service.UserService
	jwt     *auth.JWTManager
	refresh auth.RefreshStore
	log     *slog.Logger
}

func NewTokenHandler(userSvc *service.UserService, jwt *auth.JWTManager, refresh auth.RefreshStore, log *slog.Logger) *TokenHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TokenHandler{userSvc: userSvc, jwt: jwt, refresh: refresh, log: log}
}

// Obtain godoc
// @Summary      Obtain a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TokenRequest  true  "Credentials"
// @Success      200   {object}  dto.TokenPairResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /token [post]
func (h *TokenHandler) Obtain(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		h.log.Error("token obtain", "user", req.Username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	access, err := h.jwt.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		h.log.Error("sign access token", "user", user.Username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	refresh, jti, err := h.jwt.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		h.log.Error("sign refresh token", "user", user.Username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if err := h.refresh.Save(c.Request.Context(), jti, h.jwt.RefreshTTL()); err != nil {
		h.log.Error("save refresh token", "user", user.Username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, dto.TokenPairResponse{Access: access, Refresh: refresh})
}

// Refresh godoc
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RefreshRequest  true  "Refresh token"
// @Success      200   {object}  dto.AccessResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /token/refresh [post]
func (h *TokenHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims, err := h.jwt.ValidateRefreshToken(req.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	ok, err := h.refresh.Exists(c.Request.Context(), claims.ID)
	if err != nil {
		h.log.Error("check refresh token", "user", claims.Username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	access, err := h.jwt.GenerateAccessToken(claims.UserID, claims.Username)
	if err != nil {
		h.log.Error("sign access token", "user", claims.Username, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	c.JSON(http.StatusOK, dto.AccessResponse{Access: access})
}
