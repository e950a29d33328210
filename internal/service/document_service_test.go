package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"docqa_backend/internal/config"
	"docqa_backend/internal/model"
	"docqa_backend/internal/repository"
	"docqa_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDocEnv(t *testing.T, db *gorm.DB, llmURL string) *DocumentService {
	t.Helper()
	llm := NewLLMService(config.LLMConfig{BaseURL: llmURL, Timeout: time.Second})
	storage := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}}
	return NewDocumentService(repository.NewDocumentRepository(db), llm, storage)
}

func TestValidDocName(t *testing.T) {
	assert.True(t, validDocName("handbook"))
	assert.True(t, validDocName("Учебник 2024"))
	assert.True(t, validDocName("dev_notes-v2"))
	assert.False(t, validDocName(""))
	assert.False(t, validDocName("../etc/passwd"))
	assert.False(t, validDocName("name/with/slash"))
	assert.False(t, validDocName("semi;colon"))
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "zip", fileExtension("archive.zip"))
	assert.Equal(t, "txt", fileExtension("notes.TXT"))
	assert.Equal(t, "", fileExtension("noext"))
}

func TestChangeDescriptionOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newDocEnv(t, db, "http://127.0.0.1:1") // 改描述不应触发微服务调用

	require.NoError(t, db.Create(&model.Document{Name: "handbook", Type: "txt", UserID: 1}).Error)

	err := svc.Change(1, false, &ChangeDocRequest{CurrentName: "handbook", Description: "updated"})
	require.NoError(t, err)

	var doc model.Document
	require.NoError(t, db.Where("name = ?", "handbook").First(&doc).Error)
	assert.Equal(t, "updated", doc.Description)
}

func TestChangeRenameGoesThroughUpstream(t *testing.T) {
	db := newTestDB(t)

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := newDocEnv(t, db, srv.URL)
	require.NoError(t, db.Create(&model.Document{Name: "handbook", Type: "txt", UserID: 1}).Error)

	err := svc.Change(1, false, &ChangeDocRequest{CurrentName: "handbook", NewName: "manual"})
	require.NoError(t, err)
	assert.Equal(t, "/process_change_doc_name", gotPath)

	var doc model.Document
	require.NoError(t, db.Where("name = ?", "manual").First(&doc).Error)
}

func TestChangeDeniedForStranger(t *testing.T) {
	db := newTestDB(t)
	svc := newDocEnv(t, db, "http://127.0.0.1:1")

	require.NoError(t, db.Create(&model.Document{Name: "handbook", Type: "txt", UserID: 1}).Error)

	err := svc.Change(2, false, &ChangeDocRequest{CurrentName: "handbook", Description: "x"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// 管理员不受所有者限制
	err = svc.Change(2, true, &ChangeDocRequest{CurrentName: "handbook", Description: "x"})
	assert.NoError(t, err)
}

func TestChangeUnknownDoc(t *testing.T) {
	db := newTestDB(t)
	svc := newDocEnv(t, db, "http://127.0.0.1:1")

	err := svc.Change(1, false, &ChangeDocRequest{CurrentName: "ghost", Description: "x"})
	assert.ErrorIs(t, err, util.ErrDocumentNotFound)
}

func TestDeleteRemovesRowEvenIfUpstreamDown(t *testing.T) {
	db := newTestDB(t)
	svc := newDocEnv(t, db, "http://127.0.0.1:1") // 微服务不可达只记日志

	require.NoError(t, db.Create(&model.Document{Name: "handbook", Type: "txt", UserID: 1}).Error)

	require.NoError(t, svc.Delete(1, false, "handbook"))

	var count int64
	require.NoError(t, db.Model(&model.Document{}).Where("name = ?", "handbook").Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestMyDocsIncludesContestDocs(t *testing.T) {
	db := newTestDB(t)
	svc := newDocEnv(t, db, "http://127.0.0.1:1")

	require.NoError(t, db.Create(&model.Document{Name: "mine", Type: "txt", UserID: 1}).Error)
	require.NoError(t, db.Create(&model.Document{Name: "contest", Type: "txt", UserID: 2, InContest: true}).Error)
	require.NoError(t, db.Create(&model.Document{Name: "foreign", Type: "txt", UserID: 2}).Error)

	docs, err := svc.MyDocs(1)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	names := []string{docs[0].Name, docs[1].Name}
	assert.Contains(t, names, "mine")
	assert.Contains(t, names, "contest")
}
