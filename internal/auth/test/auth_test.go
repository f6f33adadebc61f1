package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aawaiz-Soomro/LibraDB/internal/auth"
	"github.com/Aawaiz-Soomro/LibraDB/internal/user"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/database"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/logger"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/models"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/utils"
	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	dbPath := t.TempDir() + "/test.db"
	if err := database.InitDatabase(dbPath); err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	logger.Init(logger.ERROR, false, nil)
	gin.SetMode(gin.TestMode)

	authHandler := auth.NewHandler(testSecret)
	userHandler := user.NewHandler()

	router := gin.New()
	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("")
	protected.Use(authHandler.AuthMiddleware())
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/users/me", userHandler.GetProfile)
		protected.POST("/users/:id/approve", auth.RequireRole(models.RoleLibrarian), userHandler.Approve)
	}
	return router
}

func seedLibrarian(t *testing.T) string {
	t.Helper()
	hash, err := utils.HashPassword("Secret123A")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := database.DB.Exec(
		`INSERT INTO users (id, name, email, password_hash, role, approved) VALUES ('lib1', 'Lib', 'lib@test.io', ?, 'librarian', 1)`,
		hash); err != nil {
		t.Fatalf("seed librarian: %v", err)
	}
	token, err := utils.GenerateJWT("lib1", models.RoleLibrarian, testSecret)
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}
	return token
}

func doJSON(router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func register(router *gin.Engine, name, email string) *httptest.ResponseRecorder {
	return doJSON(router, "POST", "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "Secret123A",
	})
}

func login(router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	return doJSON(router, "POST", "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := setupRouter(t)

	if resp := register(router, "Mia", "mia@test.io"); resp.Code != http.StatusCreated {
		t.Fatalf("first register: %d %s", resp.Code, resp.Body.String())
	}
	if resp := register(router, "Other Mia", "mia@test.io"); resp.Code != http.StatusConflict {
		t.Fatalf("duplicate register: %d, want 409", resp.Code)
	}
}

func TestLoginUnapprovedMember(t *testing.T) {
	router := setupRouter(t)

	register(router, "Mia", "mia@test.io")

	// Correct credentials, but not yet approved.
	if resp := login(router, "mia@test.io", "Secret123A"); resp.Code != http.StatusForbidden {
		t.Fatalf("unapproved login: %d, want 403", resp.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	router := setupRouter(t)
	seedLibrarian(t)

	if resp := login(router, "nobody@test.io", "Secret123A"); resp.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email: %d, want 401", resp.Code)
	}
	if resp := login(router, "lib@test.io", "WrongPass1"); resp.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d, want 401", resp.Code)
	}
}

func TestApproveThenLogin(t *testing.T) {
	router := setupRouter(t)
	libToken := seedLibrarian(t)

	resp := register(router, "Mia", "mia@test.io")
	var reg struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &reg); err != nil {
		t.Fatalf("parse register response: %v", err)
	}

	if resp := doJSON(router, "POST", "/users/"+reg.UserID+"/approve", libToken, nil); resp.Code != http.StatusOK {
		t.Fatalf("approve: %d %s", resp.Code, resp.Body.String())
	}

	resp = login(router, "mia@test.io", "Secret123A")
	if resp.Code != http.StatusOK {
		t.Fatalf("login after approval: %d %s", resp.Code, resp.Body.String())
	}
	var authResp models.AuthResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &authResp); err != nil {
		t.Fatalf("parse login response: %v", err)
	}
	if authResp.Role != models.RoleMember || authResp.Token == "" {
		t.Fatalf("unexpected auth response: %+v", authResp)
	}

	// Approving twice is a conflict, not a silent success.
	if resp := doJSON(router, "POST", "/users/"+reg.UserID+"/approve", libToken, nil); resp.Code != http.StatusConflict {
		t.Fatalf("re-approve: %d, want 409", resp.Code)
	}
}

func TestApproveLibrarianNotApplicable(t *testing.T) {
	router := setupRouter(t)
	libToken := seedLibrarian(t)

	if resp := doJSON(router, "POST", "/users/lib1/approve", libToken, nil); resp.Code != http.StatusConflict {
		t.Fatalf("approve librarian: %d, want 409", resp.Code)
	}
}

func TestRevokedApprovalBlocksAccess(t *testing.T) {
	router := setupRouter(t)
	libToken := seedLibrarian(t)

	resp := register(router, "Mia", "mia@test.io")
	var reg struct {
		UserID string `json:"user_id"`
	}
	json.Unmarshal(resp.Body.Bytes(), &reg)
	doJSON(router, "POST", "/users/"+reg.UserID+"/approve", libToken, nil)

	resp = login(router, "mia@test.io", "Secret123A")
	var authResp models.AuthResponse
	json.Unmarshal(resp.Body.Bytes(), &authResp)

	if resp := doJSON(router, "GET", "/users/me", authResp.Token, nil); resp.Code != http.StatusOK {
		t.Fatalf("profile while approved: %d", resp.Code)
	}

	// Approval is re-checked per request, not just at login.
	if _, err := database.DB.Exec(`UPDATE users SET approved = 0 WHERE id = ?`, reg.UserID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if resp := doJSON(router, "GET", "/users/me", authResp.Token, nil); resp.Code != http.StatusForbidden {
		t.Fatalf("profile after revocation: %d, want 403", resp.Code)
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	router := setupRouter(t)
	libToken := seedLibrarian(t)

	if resp := doJSON(router, "POST", "/auth/logout", libToken, nil); resp.Code != http.StatusOK {
		t.Fatalf("logout: %d", resp.Code)
	}
	if resp := doJSON(router, "GET", "/users/me", libToken, nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("request with revoked token: %d, want 401", resp.Code)
	}
}

func TestRoleCheckDeniesMember(t *testing.T) {
	router := setupRouter(t)
	seedLibrarian(t)

	register(router, "Mia", "mia@test.io")
	if _, err := database.DB.Exec(`UPDATE users SET approved = 1 WHERE email = 'mia@test.io'`); err != nil {
		t.Fatalf("approve: %v", err)
	}
	resp := login(router, "mia@test.io", "Secret123A")
	var authResp models.AuthResponse
	json.Unmarshal(resp.Body.Bytes(), &authResp)

	if resp := doJSON(router, "POST", "/users/lib1/approve", authResp.Token, nil); resp.Code != http.StatusForbidden {
		t.Fatalf("member calling librarian route: %d, want 403", resp.Code)
	}
}
