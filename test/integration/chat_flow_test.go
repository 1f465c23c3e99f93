package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"abend-assist-be/internal/bootstrap"
	"abend-assist-be/internal/config"
	"abend-assist-be/internal/dto"
	"abend-assist-be/internal/model"
	"abend-assist-be/internal/pkg/serverutils"
	"abend-assist-be/internal/server"
	"abend-assist-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// setup needs a disposable postgres in DB_CONNECTION_STRING. NATS, Redis and
// SMTP are switched off so only the database is exercised.
func setup(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()
	// Tests run in the package dir, the .env lives two levels up.
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	if os.Getenv("DB_CONNECTION_STRING") == "" {
		t.Skip("DB_CONNECTION_STRING not set")
	}

	cfg := config.Load()
	cfg.App.NatsURL = ""
	cfg.App.RedisURL = ""
	cfg.App.SessionStore = "memory"
	cfg.App.LogFilePath = t.TempDir() + "/app.log"
	cfg.App.ChatLogFilePath = t.TempDir() + "/chat.log"
	cfg.Auth.JWTSecret = "integration-secret"

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.AbendRecord{}, &model.SecurityUser{}, &model.ChatTurn{}))

	require.NoError(t, db.Exec("DELETE FROM abend_records WHERE code IN ?", []string{"ZT01", "ZT02"}).Error)
	require.NoError(t, db.Create(&[]model.AbendRecord{
		{Code: "ZT01", Name: "Integration Storage Fault", Solution: "Rerun with REGION=0M"},
		{Code: "ZT02", Name: "Integration Dataset Missing", Solution: "Catalog the dataset"},
	}).Error)
	t.Cleanup(func() {
		db.Exec("DELETE FROM abend_records WHERE code IN ?", []string{"ZT01", "ZT02"})
	})

	container := bootstrap.NewContainer(db, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = container.Close()
	})
	require.NoError(t, container.Start(ctx))

	return server.New(cfg, container).GetApp(), db, cfg
}

func post[T any](t *testing.T, app *fiber.App, path, token string, body interface{}) (int, serverutils.BaseResponse[T]) {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out serverutils.BaseResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestChatLookupAndSuggestion(t *testing.T) {
	app, db, _ := setup(t)

	status, res := post[dto.ChatResponse](t, app, "/api/chat", "", dto.ChatRequest{SessionId: "it-lookup", Message: "what is zt01?"})
	require.Equal(t, 200, status)
	assert.Contains(t, res.Data.Reply, "**Abend Code:** ZT01")
	assert.Equal(t, "lookup", res.Data.Intent)

	_, res = post[dto.ChatResponse](t, app, "/api/chat", "", dto.ChatRequest{SessionId: "it-lookup", Message: "integration dataset misssing"})
	assert.Equal(t, "yes_no", res.Data.PromptKind)

	_, res = post[dto.ChatResponse](t, app, "/api/chat", "", dto.ChatRequest{SessionId: "it-lookup", Message: "yes"})
	assert.Contains(t, res.Data.Reply, "Catalog the dataset")

	// Turns are persisted asynchronously by the consumer.
	assert.Eventually(t, func() bool {
		var n int64
		db.Model(&model.ChatTurn{}).Where("session_id = ?", "it-lookup").Count(&n)
		return n == 3
	}, 5*time.Second, 50*time.Millisecond)
	t.Cleanup(func() { db.Where("session_id = ?", "it-lookup").Delete(&model.ChatTurn{}) })
}

func TestRefreshPicksUpNewRows(t *testing.T) {
	app, db, cfg := setup(t)

	token, err := serverutils.GenerateToken(cfg.Auth.JWTSecret, "it", serverutils.RoleAdmin, time.Minute)
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.AbendRecord{Code: "ZT03", Name: "Integration Late Row", Solution: "Refresh"}).Error)
	t.Cleanup(func() { db.Exec("DELETE FROM abend_records WHERE code = ?", "ZT03") })

	_, res := post[dto.ChatResponse](t, app, "/api/chat", "", dto.ChatRequest{SessionId: "it-refresh", Message: "zt03"})
	assert.NotContains(t, res.Data.Reply, "ZT03")

	status, _ := post[dto.RefreshAbendsResponse](t, app, "/api/abends/refresh", "", nil)
	assert.Equal(t, 401, status)

	status, refreshed := post[dto.RefreshAbendsResponse](t, app, "/api/abends/refresh", token, nil)
	require.Equal(t, 200, status)
	assert.GreaterOrEqual(t, refreshed.Data.Count, 3)

	_, res = post[dto.ChatResponse](t, app, "/api/chat", "", dto.ChatRequest{SessionId: "it-refresh", Message: "zt03"})
	assert.Contains(t, res.Data.Reply, "**Abend Code:** ZT03")
	t.Cleanup(func() { db.Where("session_id = ?", "it-refresh").Delete(&model.ChatTurn{}) })
}

func TestPasswordResetUnknownIdentity(t *testing.T) {
	app, db, _ := setup(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("old"), bcrypt.MinCost)
	require.NoError(t, db.Save(&model.SecurityUser{UserId: "ZZIT01", Password: string(hash)}).Error)
	t.Cleanup(func() {
		db.Where("user_id = ?", "ZZIT01").Delete(&model.SecurityUser{})
		db.Where("session_id = ?", "it-reset").Delete(&model.ChatTurn{})
	})

	_, res := post[dto.ChatResponse](t, app, "/api/chat", "", dto.ChatRequest{SessionId: "it-reset", Message: "reset my password"})
	assert.Equal(t, "identity_request", res.Data.PromptKind)

	_, res = post[dto.ChatResponse](t, app, "/api/chat", "", dto.ChatRequest{SessionId: "it-reset", Message: "nobody99"})
	assert.Contains(t, res.Data.Reply, "was not found")
	assert.Equal(t, "none", res.Data.PromptKind)
}
