package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"docqa_backend/internal/config"
	"docqa_backend/internal/controller"
	"docqa_backend/internal/model"
	"docqa_backend/internal/repository"
	"docqa_backend/internal/service"
	"docqa_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func newRouterTestApp(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Document{}))

	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}

	docRepo := repository.NewDocumentRepository(db)
	storage := &service.LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}}
	docService := service.NewDocumentService(docRepo, nil, storage)

	router := gin.New()
	a := &App{Config: cfg}
	a.registerRoutes(router, &controllers{
		document: controller.NewDocumentController(docService),
	}, cfg)

	return router, cfg
}

func routerToken(t *testing.T, role model.UserRole, secret string) string {
	t.Helper()
	token, err := util.GenerateJWT(&model.User{
		BaseModel: model.BaseModel{ID: 7},
		Email:     "user@example.com",
		Role:      role,
	}, secret, time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	return w
}

func TestDocumentAdminRoutesBlockMembers(t *testing.T) {
	router, cfg := newRouterTestApp(t)
	token := routerToken(t, model.Member, cfg.JWT.Secret)

	w := doRequest(router, http.MethodGet, "/api/docks/all", token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodPost, "/api/docks/upload", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDocumentAdminRoutesAllowAdmin(t *testing.T) {
	router, cfg := newRouterTestApp(t)
	token := routerToken(t, model.Admin, cfg.JWT.Secret)

	w := doRequest(router, http.MethodGet, "/api/docks/all", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDocumentMemberRoutesStayOpen(t *testing.T) {
	router, cfg := newRouterTestApp(t)
	token := routerToken(t, model.Member, cfg.JWT.Secret)

	w := doRequest(router, http.MethodGet, "/api/docks/my", token)
	assert.Equal(t, http.StatusOK, w.Code)
}
