package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/waveshare/waveshare-api/internal/constants"
	"github.com/waveshare/waveshare-api/internal/database"
	"github.com/waveshare/waveshare-api/internal/middleware"
	"github.com/waveshare/waveshare-api/internal/models"
	"github.com/waveshare/waveshare-api/internal/notify"
	"github.com/waveshare/waveshare-api/internal/repository"
	"github.com/waveshare/waveshare-api/internal/services"
	"github.com/waveshare/waveshare-api/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db            *gorm.DB
	router        *gin.Engine
	orgRepo       repository.OrganizationRepository
	authService   *services.AuthService
	rosterService *services.RosterService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Organization{})
	require.NoError(t, err)

	database.SetDB(db)

	blobs, err := storage.NewFilesystemStore(t.TempDir(), "http://localhost:8080/files")
	require.NoError(t, err)

	logger := zerolog.Nop()
	orgRepo := repository.NewOrganizationRepository(db)
	authService := services.NewAuthService(orgRepo, notify.NewLogNotifier(logger), blobs, logger)
	rosterService := services.NewRosterService(orgRepo, blobs, logger)

	authHandler := NewAuthHandler(authService)
	rosterHandler := NewRosterHandler(rosterService)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/resend-email-otp", authHandler.ResendEmailOTP)
		auth.POST("/verify-phone", authHandler.VerifyPhone)
		auth.POST("/resend-phone-otp", authHandler.ResendPhoneOTP)
		auth.POST("/upload-document", authHandler.UploadDocument)
		auth.POST("/skip-document", authHandler.SkipDocument)
		auth.POST("/upload-csv", rosterHandler.UploadCSV)
		auth.POST("/upload-typed-csv", rosterHandler.UploadTypedCSV)
		auth.GET("/get-members-csv/:orgId", rosterHandler.GetMembersCSV)
		auth.POST("/admin-login", authHandler.Login)
		auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentOrganization)
		auth.GET("/verify-org-code/:orgCode", authHandler.VerifyOrgCode)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testEnv{
		db:            db,
		router:        r,
		orgRepo:       orgRepo,
		authService:   authService,
		rosterService: rosterService,
	}
}

func (env testEnv) postJSON(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env testEnv) postMultipart(t *testing.T, path string, fields map[string]string, fileField, filename string, fileData []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile(fileField, filename)
	require.NoError(t, err)
	_, err = fw.Write(fileData)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env testEnv) getJSON(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

var registerPayload = map[string]string{
	"org_name":     "Acme University",
	"org_type":     "education",
	"email_domain": "acme.edu",
	"admin_email":  "admin@acme.edu",
	"admin_name":   "Ada Admin",
	"admin_phone":  "+15550100",
	"password":     "supersecret",
}

// registerOrg runs a registration and returns the org ID from the response.
func (env testEnv) registerOrg(t *testing.T) string {
	t.Helper()

	w := env.postJSON(t, "/api/auth/register", registerPayload)
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeBody(t, w)["org_id"].(string)
}

// orgRecord reloads the organization row, including OTP state.
func (env testEnv) orgRecord(t *testing.T, orgID string) *models.Organization {
	t.Helper()

	org, err := env.orgRepo.FindByOrgID(orgID)
	require.NoError(t, err)
	return org
}

// verifyThrough advances a registered organization up to the wanted status
// using the real endpoints.
func (env testEnv) verifyThrough(t *testing.T, orgID string, until models.VerificationStatus) {
	t.Helper()

	if until == models.StatusPending {
		return
	}

	org := env.orgRecord(t, orgID)
	w := env.postJSON(t, "/api/auth/verify-email", map[string]string{
		"org_id": orgID,
		"code":   org.EmailOTP.Code,
	})
	require.Equal(t, http.StatusOK, w.Code)
	if until == models.StatusEmailVerified {
		return
	}

	org = env.orgRecord(t, orgID)
	w = env.postJSON(t, "/api/auth/verify-phone", map[string]string{
		"org_id": orgID,
		"code":   org.PhoneOTP.Code,
	})
	require.Equal(t, http.StatusOK, w.Code)
	if until == models.StatusPhoneVerified {
		return
	}

	w = env.postJSON(t, "/api/auth/skip-document", map[string]string{"org_id": orgID})
	require.Equal(t, http.StatusOK, w.Code)
}
