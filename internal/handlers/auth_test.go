package handlers

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/waveshare/waveshare-api/internal/models"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t)

	w := env.postJSON(t, "/api/auth/register", registerPayload)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	require.Regexp(t, regexp.MustCompile(`^[A-Z]{3}-[0-9A-F]{5}$`), body["org_code"])
	require.Regexp(t, regexp.MustCompile(`^ACM-`), body["org_code"])
	require.Equal(t, "ADM-ACM-001", body["admin_id"])
	require.Equal(t, "Acme University", body["org_name"])

	org := env.orgRecord(t, body["org_id"].(string))
	require.Equal(t, models.StatusPending, org.VerificationStatus)
	require.Regexp(t, regexp.MustCompile(`^[1-9][0-9]{5}$`), org.EmailOTP.Code)
	require.True(t, org.EmailOTP.ExpiresAt.After(time.Now()))
	require.NotEqual(t, registerPayload["password"], org.AdminPasswordHash)
	require.Empty(t, org.PhoneOTP.Code)
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	env := setupTestEnv(t)
	env.registerOrg(t)

	w := env.postJSON(t, "/api/auth/register", registerPayload)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Register_MissingField(t *testing.T) {
	env := setupTestEnv(t)

	payload := map[string]string{}
	for k, v := range registerPayload {
		payload[k] = v
	}
	delete(payload, "admin_email")

	w := env.postJSON(t, "/api/auth/register", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_VerifyEmail(t *testing.T) {
	env := setupTestEnv(t)
	orgID := env.registerOrg(t)
	org := env.orgRecord(t, orgID)

	w := env.postJSON(t, "/api/auth/verify-email", map[string]string{
		"org_id": orgID,
		"code":   org.EmailOTP.Code,
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, registerPayload["admin_phone"], body["admin_phone"])
	require.Equal(t, string(models.StatusEmailVerified), body["verification_status"])

	org = env.orgRecord(t, orgID)
	require.Equal(t, models.StatusEmailVerified, org.VerificationStatus)
	require.Regexp(t, `^[1-9][0-9]{5}$`, org.PhoneOTP.Code)
}

func TestAuthHandler_VerifyEmail_WrongCode(t *testing.T) {
	env := setupTestEnv(t)
	orgID := env.registerOrg(t)
	org := env.orgRecord(t, orgID)

	wrong := "000000"
	require.NotEqual(t, wrong, org.EmailOTP.Code)

	w := env.postJSON(t, "/api/auth/verify-email", map[string]string{
		"org_id": orgID,
		"code":   wrong,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_OTP", decodeBody(t, w)["code"])

	org = env.orgRecord(t, orgID)
	require.Equal(t, models.StatusPending, org.VerificationStatus)
}

func TestAuthHandler_VerifyEmail_ExpiryCheckedBeforeEquality(t *testing.T) {
	env := setupTestEnv(t)
	orgID := env.registerOrg(t)

	org := env.orgRecord(t, orgID)
	org.EmailOTP.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, env.orgRepo.Update(org))

	// Wrong code on an expired OTP still reports expiry.
	w := env.postJSON(t, "/api/auth/verify-email", map[string]string{
		"org_id": orgID,
		"code":   "000000",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "OTP_EXPIRED", decodeBody(t, w)["code"])

	org = env.orgRecord(t, orgID)
	require.Equal(t, models.StatusPending, org.VerificationStatus)
}

func TestAuthHandler_VerifyEmail_UnknownOrg(t *testing.T) {
	env := setupTestEnv(t)

	w := env.postJSON(t, "/api/auth/verify-email", map[string]string{
		"org_id": "ORG_0_missing",
		"code":   "123456",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_ResendEmailOTP_InvalidatesPreviousCode(t *testing.T) {
	env := setupTestEnv(t)
	orgID := env.registerOrg(t)
	oldCode := env.orgRecord(t, orgID).EmailOTP.Code

	w := env.postJSON(t, "/api/auth/resend-email-otp", map[string]string{"org_id": orgID})
	require.Equal(t, http.StatusOK, w.Code)

	newCode := env.orgRecord(t, orgID).EmailOTP.Code
	require.NotEqual(t, oldCode, newCode)

	w = env.postJSON(t, "/api/auth/verify-email", map[string]string{
		"org_id": orgID,
		"code":   oldCode,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_OTP", decodeBody(t, w)["code"])

	w = env.postJSON(t, "/api/auth/verify-email", map[string]string{
		"org_id": orgID,
		"code":   newCode,
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_VerifyPhone_OutOfOrder(t *testing.T) {
	env := setupTestEnv(t)
	orgID := env.registerOrg(t)

	// Still pending: the phone step is not reachable yet.
	w := env.postJSON(t, "/api/auth/verify-phone", map[string]string{
		"org_id": orgID,
		"code":   "123456",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "INVALID_TRANSITION", decodeBody(t, w)["code"])
}

func TestAuthHandler_SkipDocument_OutOfOrder(t *testing.T) {
	env := setupTestEnv(t)
	orgID := env.registerOrg(t)
	env.verifyThrough(t, orgID, models.StatusEmailVerified)

	w := env.postJSON(t, "/api/auth/skip-document", map[string]string{"org_id": orgID})
	require.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, models.StatusEmailVerified, env.orgRecord(t, orgID).VerificationStatus)
}

func TestAuthHandler_UploadDocument(t *testing.T) {
	env := setupTestEnv(t)
	orgID := env.registerOrg(t)
	env.verifyThrough(t, orgID, models.StatusPhoneVerified)

	w := env.postMultipart(t, "/api/auth/upload-document",
		map[string]string{"org_id": orgID, "document_type": "accreditation"},
		"file", "charter.pdf", []byte("%PDF-1.4 fake"))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, string(models.StatusFullyVerified), body["verification_status"])
	require.NotEmpty(t, body["document_url"])

	org := env.orgRecord(t, orgID)
	require.Equal(t, models.StatusFullyVerified, org.VerificationStatus)
	require.Equal(t, "accreditation", org.DocumentType)
}

func TestAuthHandler_Login_BeforeFullyVerified(t *testing.T) {
	env := setupTestEnv(t)
	orgID := env.registerOrg(t)
	env.verifyThrough(t, orgID, models.StatusPhoneVerified)

	// Correct password, but the organization is not fully verified yet.
	w := env.postJSON(t, "/api/auth/admin-login", map[string]string{
		"identifier": registerPayload["admin_email"],
		"password":   registerPayload["password"],
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	orgID := env.registerOrg(t)
	env.verifyThrough(t, orgID, models.StatusFullyVerified)

	w := env.postJSON(t, "/api/auth/admin-login", map[string]string{
		"identifier": registerPayload["admin_email"],
		"password":   "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_UnknownIdentifier(t *testing.T) {
	env := setupTestEnv(t)

	w := env.postJSON(t, "/api/auth/admin-login", map[string]string{
		"identifier": "nobody@nowhere.example",
		"password":   "whatever1",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_EndToEndVerificationFlow(t *testing.T) {
	env := setupTestEnv(t)

	w := env.postJSON(t, "/api/auth/register", registerPayload)
	require.Equal(t, http.StatusCreated, w.Code)
	orgID := decodeBody(t, w)["org_id"].(string)

	env.verifyThrough(t, orgID, models.StatusFullyVerified)
	require.Equal(t, models.StatusFullyVerified, env.orgRecord(t, orgID).VerificationStatus)

	w = env.postJSON(t, "/api/auth/admin-login", map[string]string{
		"identifier": registerPayload["admin_email"],
		"password":   registerPayload["password"],
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, string(models.StatusFullyVerified), body["verification_status"])
	require.Equal(t, orgID, body["org_id"])

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")

	// The session authenticates the snapshot endpoint.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	env.router.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	require.Equal(t, orgID, decodeBody(t, me)["org_id"])
}

func TestAuthHandler_Login_ByAdminID(t *testing.T) {
	env := setupTestEnv(t)
	orgID := env.registerOrg(t)
	env.verifyThrough(t, orgID, models.StatusFullyVerified)

	org := env.orgRecord(t, orgID)
	w := env.postJSON(t, "/api/auth/admin-login", map[string]string{
		"identifier": org.AdminID,
		"password":   registerPayload["password"],
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_VerifyOrgCode(t *testing.T) {
	env := setupTestEnv(t)
	orgID := env.registerOrg(t)
	org := env.orgRecord(t, orgID)

	w := env.getJSON(t, "/api/auth/verify-org-code/"+org.OrgCode)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, org.OrgID, body["org_id"])
	require.Equal(t, org.OrgName, body["org_name"])
	require.Equal(t, org.OrgCode, body["org_code"])
	require.Equal(t, string(org.OrgType), body["org_type"])
}

func TestAuthHandler_VerifyOrgCode_Unknown(t *testing.T) {
	env := setupTestEnv(t)
	env.registerOrg(t)

	w := env.getJSON(t, "/api/auth/verify-org-code/ZZZ-00000")
	require.Equal(t, http.StatusNotFound, w.Code)
}
