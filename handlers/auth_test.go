package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"

	"github.com/tjgxx/DayZPDAServerTemplate/database"
	"github.com/tjgxx/DayZPDAServerTemplate/middleware"
	"github.com/tjgxx/DayZPDAServerTemplate/utils"
)

func TestRegisterDuplicateUsername(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)")).
		WithArgs("chernarussian").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	w := performRequest(t, "POST", "/auth/register", Register, "/auth/register",
		`{"username":"chernarussian","password":"secret123","steamId":"76561198000000001"}`, "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "username already exists") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRegisterSuccess(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)")).
		WithArgs("chernarussian").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id, username, steam_id, password, created_at) VALUES (?, ?, ?, ?, ?)")).
		WithArgs(sqlmock.AnyArg(), "chernarussian", "76561198000000001", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := performRequest(t, "POST", "/auth/register", Register, "/auth/register",
		`{"username":"chernarussian","password":"secret123","steamId":"76561198000000001"}`, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp AuthResponse
	decodeBody(t, w, &resp)

	if resp.Token == "" {
		t.Error("expected a token")
	}
	claims, err := utils.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("returned token does not parse: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("token subject %q != user id %q", claims.UserID, resp.User.ID)
	}
	if resp.User.Faction != "LONER" {
		t.Errorf("expected default faction LONER, got %q", resp.User.Faction)
	}
	if strings.Contains(w.Body.String(), "secret123") || strings.Contains(w.Body.String(), "password") {
		t.Errorf("password leaked in response: %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// Two registers racing past the EXISTS check: the loser hits the unique
// username key and still reads as a duplicate, not a server error.
func TestRegisterDuplicateUsernameRace(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)")).
		WithArgs("chernarussian").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id, username, steam_id, password, created_at) VALUES (?, ?, ?, ?, ?)")).
		WithArgs(sqlmock.AnyArg(), "chernarussian", "76561198000000001", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'chernarussian' for key 'users.username'"})

	w := performRequest(t, "POST", "/auth/register", Register, "/auth/register",
		`{"username":"chernarussian","password":"secret123","steamId":"76561198000000001"}`, "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "username already exists") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestLoginUnknownUser(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, steam_id, password, faction, created_at FROM users WHERE username = ?")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	w := performRequest(t, "POST", "/auth/login", Login, "/auth/login",
		`{"username":"ghost","password":"whatever"}`, "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	mock := newMockDB(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("rightpass"), bcrypt.DefaultCost)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, steam_id, password, faction, created_at FROM users WHERE username = ?")).
		WithArgs("chernarussian").
		WillReturnRows(userRow(string(hash)))

	w := performRequest(t, "POST", "/auth/login", Login, "/auth/login",
		`{"username":"chernarussian","password":"wrongpass"}`, "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginSuccess(t *testing.T) {
	mock := newMockDB(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("rightpass"), bcrypt.DefaultCost)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, steam_id, password, faction, created_at FROM users WHERE username = ?")).
		WithArgs("chernarussian").
		WillReturnRows(userRow(string(hash)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_online = TRUE, last_login_at = ? WHERE id = ?")).
		WithArgs(sqlmock.AnyArg(), "U1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := performRequest(t, "POST", "/auth/login", Login, "/auth/login",
		`{"username":"chernarussian","password":"rightpass"}`, "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AuthResponse
	decodeBody(t, w, &resp)

	if !resp.User.IsOnline {
		t.Error("expected user to be online after login")
	}
	if resp.User.LastLoginAt == nil {
		t.Error("expected lastLoginAt to be set")
	}
	if _, err := utils.ParseToken(resp.Token); err != nil {
		t.Errorf("returned token does not parse: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLogout(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)")).
		WithArgs("U1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_online = FALSE WHERE id = ?")).
		WithArgs("U1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := performRequest(t, "POST", "/auth/logout", Logout, "/auth/logout", "", "U1")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// Logout denylists the presented token for its remaining lifetime; the same
// token no longer passes the auth middleware afterwards.
func TestLogoutDenylistsToken(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)")).
		WithArgs("U1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_online = FALSE WHERE id = ?")).
		WithArgs("U1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := miniredis.RunT(t)
	database.RDB = redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		database.RDB.Close()
		database.RDB = nil
	})

	token, err := utils.GenerateToken("U1")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "U1")
		c.Set("token", token)
	})
	r.POST("/auth/logout", Logout)

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !s.Exists("denylist:" + token) {
		t.Fatal("expected token on the denylist after logout")
	}
	if ttl := s.TTL("denylist:" + token); ttl <= 0 || ttl > time.Hour {
		t.Errorf("expected denylist entry to expire with the token, got ttl %v", ttl)
	}

	protected := gin.New()
	protected.GET("/protected", middleware.AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a revoked token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLogoutUserGone(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)")).
		WithArgs("U1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	w := performRequest(t, "POST", "/auth/logout", Logout, "/auth/logout", "", "U1")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func userRow(passwordHash string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "steam_id", "password", "faction", "created_at"}).
		AddRow("U1", "chernarussian", "76561198000000001", passwordHash, "LONER", testTime())
}
