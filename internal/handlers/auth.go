package handlers

import (
	"errors"
	"net/http"

	"timekeeper/internal/service"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both setup and sign-in.
type authCredentials struct {
	Password string `json:"password" binding:"required"`
}

// @Summary      Set up owner
// @Description  Stores the owner password on first run; fails once an owner exists
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Owner password"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/setup [post]
func (h *Handler) setupOwner(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	err := h.services.Authorization.SetupOwner(c.Request.Context(), input.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"status": "created"})
	case errors.Is(err, service.ErrOwnerExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_setup_failed", err)
	}
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Owner password"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Authorization.GenerateToken(c.Request.Context(), input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
