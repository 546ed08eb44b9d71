package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/waveshare/waveshare-api/internal/constants"
	"github.com/waveshare/waveshare-api/internal/dto"
	apierrors "github.com/waveshare/waveshare-api/internal/errors"
	"github.com/waveshare/waveshare-api/internal/middleware"
	"github.com/waveshare/waveshare-api/internal/models"
	"github.com/waveshare/waveshare-api/internal/services"
)

// AuthHandler coordinates the onboarding and verification HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register onboards a new organization and issues the email OTP.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		OrgName     string `json:"org_name" binding:"required,max=255"`
		OrgType     string `json:"org_type" binding:"required,oneof=education mining healthcare corporate other"`
		EmailDomain string `json:"email_domain" binding:"required,max=255"`
		AdminEmail  string `json:"admin_email" binding:"required,email"`
		AdminName   string `json:"admin_name" binding:"required,max=255"`
		AdminPhone  string `json:"admin_phone" binding:"required,max=32"`
		Password    string `json:"password" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.authService.Register(services.RegisterInput{
		OrgName:     req.OrgName,
		OrgType:     models.OrgType(req.OrgType),
		EmailDomain: req.EmailDomain,
		AdminEmail:  req.AdminEmail,
		AdminName:   req.AdminName,
		AdminPhone:  req.AdminPhone,
		Password:    req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRegistrationDTO(*org))
}

// VerifyEmail checks the emailed code and issues the phone OTP.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	type VerifyRequest struct {
		OrgID string `json:"org_id" binding:"required"`
		Code  string `json:"code" binding:"required,len=6"`
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.authService.VerifyEmailOTP(req.OrgID, req.Code)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	resp := dto.ToVerificationStepDTO(*org)
	resp.AdminPhone = org.AdminPhone
	c.JSON(http.StatusOK, resp)
}

// VerifyPhone checks the SMS code.
func (h *AuthHandler) VerifyPhone(c *gin.Context) {
	type VerifyRequest struct {
		OrgID string `json:"org_id" binding:"required"`
		Code  string `json:"code" binding:"required,len=6"`
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.authService.VerifyPhoneOTP(req.OrgID, req.Code)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVerificationStepDTO(*org))
}

// ResendEmailOTP regenerates and redelivers the email code.
func (h *AuthHandler) ResendEmailOTP(c *gin.Context) {
	h.resendOTP(c, h.authService.ResendEmailOTP)
}

// ResendPhoneOTP regenerates and redelivers the SMS code.
func (h *AuthHandler) ResendPhoneOTP(c *gin.Context) {
	h.resendOTP(c, h.authService.ResendPhoneOTP)
}

func (h *AuthHandler) resendOTP(c *gin.Context, resend func(orgID string) error) {
	type ResendRequest struct {
		OrgID string `json:"org_id" binding:"required"`
	}

	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := resend(req.OrgID); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification code sent",
	})
}

// UploadDocument accepts the verification document and completes verification.
func (h *AuthHandler) UploadDocument(c *gin.Context) {
	orgID := c.PostForm("org_id")
	documentType := c.PostForm("document_type")
	if orgID == "" || documentType == "" {
		apierrors.BadRequest(c, "org_id and document_type are required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "Document file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apierrors.InternalError(c, "Failed to read uploaded file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	org, err := h.authService.UploadDocument(c.Request.Context(), orgID, documentType, fileHeader.Filename, contentType, data)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVerificationStepDTO(*org))
}

// SkipDocument bypasses the document step and completes verification.
func (h *AuthHandler) SkipDocument(c *gin.Context) {
	type SkipRequest struct {
		OrgID string `json:"org_id" binding:"required"`
	}

	var req SkipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.authService.SkipDocument(req.OrgID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToVerificationStepDTO(*org))
}

// Login authenticates an admin and returns the organization snapshot.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Identifier string `json:"identifier" binding:"required"`
		Password   string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.authService.Login(services.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyOrgID, org.OrgID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// GetCurrentOrganization returns the snapshot for the session's organization.
func (h *AuthHandler) GetCurrentOrganization(c *gin.Context) {
	orgID, exists := middleware.GetOrgID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	org, err := h.authService.GetOrganization(orgID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// VerifyOrgCode resolves a shareable organization code.
func (h *AuthHandler) VerifyOrgCode(c *gin.Context) {
	org, err := h.authService.VerifyOrgCode(c.Param("orgCode"))
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrgCodeDTO(*org))
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrOrganizationExists):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrOTPExpired):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeOTPExpired, err.Error())
	case errors.Is(err, services.ErrInvalidOTP):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidOTP, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeInvalidTransition, err.Error())
	case errors.Is(err, services.ErrNotFullyVerified):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrOrgCodeExhausted),
		errors.Is(err, services.ErrFailedToHashPassword),
		errors.Is(err, services.ErrCodeGeneration):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
