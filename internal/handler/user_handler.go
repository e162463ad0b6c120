package handler

import (
	"errors"
	"net/http"

	"groove/internal/auth"
	"groove/internal/model"
	"groove/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	repo       repository.UserRepositoryInterface
	tokens     *auth.Tokens
	cookieName string
}

func NewUserHandler(repo repository.UserRepositoryInterface, tokens *auth.Tokens, cookieName string) *UserHandler {
	return &UserHandler{repo: repo, tokens: tokens, cookieName: cookieName}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID.String(), Email: u.Email, Name: u.Name}
}

// Register godoc
// @Summary      Register a new user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Account"
// @Success      201 {object} AuthResponse
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	req.Email = model.NormalizeEmail(req.Email)

	existing, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Hash error"})
		return
	}

	user := &model.User{
		ID:             uuid.New(),
		Email:          req.Email,
		Name:           req.Name,
		HashedPassword: hash,
	}

	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create failed"})
		return
	}

	h.issue(c, http.StatusCreated, user)
}

// Login godoc
// @Summary      Log in
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} AuthResponse
// @Failure      401 {object} map[string]string
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.repo.FindByEmail(c.Request.Context(), model.NormalizeEmail(req.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if user == nil || !auth.CheckPassword(user.HashedPassword, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	h.issue(c, http.StatusOK, user)
}

// Logout godoc
// @Summary      Clear the session cookie
// @Tags         Users
// @Success      204
// @Router       /logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary      Current user
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} UserResponse
// @Router       /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// issue signs a token, sets it as the HttpOnly session cookie and returns it.
func (h *UserHandler) issue(c *gin.Context, status int, user *model.User) {
	token, err := h.tokens.Generate(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token error"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, token, int(h.tokens.TTL().Seconds()), "/", "", false, true)
	c.JSON(status, AuthResponse{Token: token, User: toUserResponse(user)})
}
