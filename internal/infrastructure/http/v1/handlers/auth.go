package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vyapari/internal/domain/auth"
	"vyapari/internal/infrastructure/http/v1/dto"
	"vyapari/internal/infrastructure/http/v1/middleware"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SignupRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, organization, err := h.service.Signup(ctx, req.ToSignupRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SignupResponse{
		Organization: organization,
		User:         dto.FromUser(user),
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, user, err := h.service.Login(ctx, req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Tokens: dto.FromTokenPair(tokens),
		User:   dto.FromUser(user),
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RefreshTokenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, err := h.service.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTokenPair(tokens))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	if err := h.service.Logout(ctx, userID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	user, err := h.service.GetUserByID(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromUser(user))
}

// AddUser handles POST /auth/users
func (h *AuthHandler) AddUser(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req dto.AddUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.AddUser(ctx, orgID, req.Email, req.Password, req.Name, auth.Role(req.Role))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromUser(user))
}

// ListUsers handles GET /auth/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	users, err := h.service.ListUsers(ctx, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.UserResponse, len(users))
	for i := range users {
		items[i] = dto.FromUser(&users[i])
	}
	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}

// RegisterRoutes registers auth routes.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/signup", h.Signup)
	public.POST("/login", h.Login)
	public.POST("/refresh", h.Refresh)

	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.Me)
	// Staff management is owner-only to keep privilege escalation out.
	protected.POST("/users", middleware.RequireOwner(), h.AddUser)
	protected.GET("/users", middleware.RequireOwner(), h.ListUsers)
}
