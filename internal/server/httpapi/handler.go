package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/users"
)

// AuthService is what the handlers need from users.Service.
type AuthService interface {
	Register(ctx context.Context, fullName, email, password string) (*users.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type Handler struct {
	users    AuthService
	tokenTTL time.Duration
	logger   logging.Logger
}

// NewHandler returns the route handlers. tokenTTL is reported to clients as
// expiresIn on login.
func NewHandler(us AuthService, tokenTTL time.Duration, l logging.Logger) *Handler {
	if l == nil {
		l = logging.Nop{}
	}
	return &Handler{users: us, tokenTTL: tokenTTL, logger: l.With("module", "http_handler")}
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "API is running"})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	h.logger.Info(ctx, "Registration request")

	if _, err := h.users.Register(ctx, req.FullName, req.Email, req.Password); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	token, err := h.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		TokenType: common.BearerScheme,
		ExpiresIn: int64(h.tokenTTL / time.Second),
	})
}

func (h *Handler) Profile(c *gin.Context) {
	id, ok := IdentityFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome, " + id.Email,
		"email":   id.Email,
	})
}

// writeError maps service errors to status codes. Internal detail only goes
// to the log.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationMessage(err)})
	case errors.Is(err, common.ErrAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
	default:
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Something went wrong",
			"error":   common.ErrorInternal.Error(),
		})
	}
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), common.ErrValidation.Error()+": ")
	if msg == "" || msg == common.ErrValidation.Error() {
		return "invalid input"
	}
	return msg
}
