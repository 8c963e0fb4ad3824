package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bandprep/internal/email"
	"bandprep/internal/repository"
	"bandprep/internal/service"
)

// AuthHandler mantiene dependencias para endpoints de autenticación y perfil.
type AuthHandler struct {
	logger      *zap.Logger
	authServ    *service.AuthService
	jwtServ     *service.JWTService
	users       repository.UserRepository
	emailSender email.Sender
}

func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, jwtServ *service.JWTService, users repository.UserRepository, emailSender email.Sender) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		authServ:    authServ,
		jwtServ:     jwtServ,
		users:       users,
		emailSender: emailSender,
	}
}

// Login maneja POST /auth/login: emite (o reusa) un OTP y lo envía por correo.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	otp, err := h.authServ.Issue(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("issue otp failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue otp"})
		return
	}

	if err := email.SendLoginOTP(c.Request.Context(), h.emailSender, otp.Email, otp.Code, otp.ExpiresAt); err != nil {
		h.logger.Warn("send otp email failed", zap.Error(err), zap.String("email", otp.Email))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email delivery unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"email":     otp.Email,
			"otpExpiry": otp.ExpiresAt.UTC().Format(time.RFC3339),
		},
		"message": "OTP sent to your email. Please check your inbox.",
	})
}

// Register maneja POST /auth/register: get-or-create de la cuenta con datos
// opcionales de perfil, seguido de emisión y envío de OTP.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email       string     `json:"email" binding:"required,email"`
		Name        string     `json:"name"`
		TargetScore *float64   `json:"targetScore"`
		TestDate    *time.Time `json:"testDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.authServ.GetOrCreateUser(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("register get-or-create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
		return
	}

	if req.Name != "" || req.TargetScore != nil || req.TestDate != nil {
		update := repository.ProfileUpdate{
			TargetScore: req.TargetScore,
			TestDate:    req.TestDate,
		}
		if req.Name != "" {
			update.Name = &req.Name
		}
		user, err = h.users.UpdateProfile(c.Request.Context(), user.ID, update, time.Now().UTC())
		if err != nil {
			h.logger.Error("register profile update failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
			return
		}
	}

	otp, err := h.authServ.Issue(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("issue otp failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue otp"})
		return
	}

	if err := email.SendLoginOTP(c.Request.Context(), h.emailSender, otp.Email, otp.Code, otp.ExpiresAt); err != nil {
		h.logger.Warn("send otp email failed", zap.Error(err), zap.String("email", otp.Email))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email delivery unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":    user,
			"message": "Registration successful. Please check your email for OTP.",
		},
	})
}

// VerifyOTP maneja POST /auth/verify-otp: valida el código y emite el token.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.authServ.Verify(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredCode) || errors.Is(err, service.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
			return
		}
		h.logger.Error("verify otp failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify otp"})
		return
	}

	token, err := h.jwtServ.IssueToken(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"user": user, "token": token},
		"message": "Login successful",
	})
}

// GetProfile maneja GET /auth/profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("get profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// UpdateProfile maneja PUT /auth/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Name            *string    `json:"name"`
		Email           *string    `json:"email" binding:"omitempty,email"`
		TargetScore     *float64   `json:"targetScore"`
		TestDate        *time.Time `json:"testDate"`
		HasPreviousTest *bool      `json:"hasPreviousTest"`
		LastTestScore   *float64   `json:"lastTestScore"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid profile update", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), claims.Subject, repository.ProfileUpdate{
		Name:            req.Name,
		Email:           req.Email,
		TargetScore:     req.TargetScore,
		TestDate:        req.TestDate,
		HasPreviousTest: req.HasPreviousTest,
		LastTestScore:   req.LastTestScore,
	}, time.Now().UTC())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if repository.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		h.logger.Error("update profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
		"message": "Profile updated successfully",
	})
}

// DeleteProfile maneja DELETE /auth/profile. Borra la cuenta y sus registros
// dependientes en cascada.
func (h *AuthHandler) DeleteProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	if err := h.users.Delete(c.Request.Context(), claims.Subject); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("delete profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account deleted"})
}
