package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"identity-api/internal/domain"
	"identity-api/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	auth    service.AuthService
	weather service.WeatherService
	logger  *logrus.Logger
}

func NewHandler(users service.UserService, auth service.AuthService, weather service.WeatherService, logger *logrus.Logger) *Handler {
	return &Handler{
		users:   users,
		auth:    auth,
		weather: weather,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/auth/token", h.issueToken)
		api.GET("/weather", h.getForecasts)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		users := api.Group("/users")
		users.Use(h.requireAuth())
		{
			users.GET("", h.listUsers)
			users.POST("", h.createUser)
			users.GET("/:id", h.getUser)
			users.PUT("/:id", h.updateUser)
			users.DELETE("/:id", h.deleteUser)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireAuth validates the bearer token and stores its subject on the
// request context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := h.auth.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("username", claims.Subject)
		c.Next()
	}
}

type tokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) issueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.IssueToken(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Errorf("issue token for %s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type createUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type updateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	IsActive  *bool   `json:"is_active"`
}

func (h *Handler) listUsers(c *gin.Context) {
	views, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Errorf("list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := make([]UserResponse, len(views))
	for i := range views {
		resp[i] = userToResponse(views[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	view, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		h.logger.Errorf("get user %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if view == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, userToResponse(*view))
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.users.CreateUser(c.Request.Context(), service.CreateUserRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.respondUserError(c, "create user", req.Username, err)
		return
	}

	c.JSON(http.StatusCreated, userToResponse(*view))
}

func (h *Handler) updateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.users.UpdateUser(c.Request.Context(), id, service.UpdateUserRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
	})
	if err != nil {
		h.respondUserError(c, "update user", id.String(), err)
		return
	}

	c.JSON(http.StatusOK, userToResponse(*view))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	deleted, err := h.users.DeleteUser(c.Request.Context(), id)
	if err != nil {
		h.logger.Errorf("delete user %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) getForecasts(c *gin.Context) {
	forecasts, err := h.weather.GetForecasts(c.Request.Context())
	if err != nil {
		h.logger.Errorf("get forecasts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := make([]WeatherForecastResponse, len(forecasts))
	for i := range forecasts {
		resp[i] = forecastToResponse(forecasts[i])
	}
	c.JSON(http.StatusOK, resp)
}

// respondUserError maps the service error taxonomy onto status codes without
// depending on error message text.
func (h *Handler) respondUserError(c *gin.Context, op, key string, err error) {
	switch {
	case errors.Is(err, service.ErrUsernameExists), errors.Is(err, service.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Errorf("%s %s: %v", op, key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type UserResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

type WeatherForecastResponse struct {
	Date         string `json:"date"`
	TemperatureC int    `json:"temperature_c"`
	TemperatureF int    `json:"temperature_f"`
	Summary      string `json:"summary"`
}

func userToResponse(view domain.UserView) UserResponse {
	resp := UserResponse{
		ID:        view.ID.String(),
		Username:  view.Username,
		Email:     view.Email,
		FirstName: view.FirstName,
		LastName:  view.LastName,
		IsActive:  view.IsActive,
		CreatedAt: view.CreatedAt.Format(time.RFC3339),
	}
	if view.UpdatedAt != nil {
		v := view.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &v
	}
	return resp
}

func forecastToResponse(f domain.WeatherForecast) WeatherForecastResponse {
	return WeatherForecastResponse{
		Date:         f.Date.Format("2006-01-02"),
		TemperatureC: f.TemperatureC,
		TemperatureF: f.TemperatureF(),
		Summary:      f.Summary,
	}
}
