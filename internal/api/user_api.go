package api

import (
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"vendorpro/internal/entity"
	"vendorpro/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUserByID retrieves a user by ID --> /users/:id
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	user, err := h.userService.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	user.Password = ""
	return c.JSON(200, user)
}

// Register creates a new user --> /register
func (h *UserHandler) Register(c echo.Context) error {
	user := entity.User{}
	if err := c.Bind(&user); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	createdUser, err := h.userService.Register(c.Request().Context(), &user)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, createdUser)
}

// Login logs in a user --> /login
func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	login := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}

	if err := c.Bind(&login); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	token, err := h.userService.Login(ctx, login.Email, login.Password)
	if err != nil {
		return c.JSON(401, map[string]string{"error": err.Error()})
	}

	return c.JSON(200, map[string]string{"token": token})
}

// ValidateSession checks the presented token against the stored session --> /sessions/validate
func (h *UserHandler) ValidateSession(c echo.Context) error {
	ctx := c.Request().Context()

	token := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
	if token == "" {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	user, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}
	claims, ok := user.Claims.(*service.JwtCustomClaims)
	if !ok {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	stored, err := h.userService.ValidateToken(ctx, claims.Email)
	if err != nil {
		return c.JSON(401, map[string]string{"error": err.Error()})
	}
	if stored != token {
		return c.JSON(401, map[string]string{"error": "Unauthorized"})
	}

	return c.JSON(200, map[string]string{"message": "Session is valid"})
}
