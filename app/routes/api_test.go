package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zmaxim/skystore/app/authz"
	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/config"
	"github.com/zmaxim/skystore/pkg/router"
	"github.com/zmaxim/skystore/pkg/storage"
)

func testRouter(t *testing.T) (*router.Router, *gorm.DB) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{},
		&models.BlogPost{}, &models.Contact{},
	))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	r := router.New()
	Register(r, db)
	return r, db
}

type apiResponse struct {
	Status  int                    `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Errors  map[string]string      `json:"errors"`
}

func do(t *testing.T, r *router.Router, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	var parsed apiResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &parsed)
	return rec, parsed
}

func registerAndLogin(t *testing.T, r *router.Router, email string) string {
	t.Helper()

	rec, _ := do(t, r, http.MethodPost, "/api/register", "", map[string]string{
		"email":                 email,
		"password":              "password123",
		"password_confirmation": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, resp := do(t, r, http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token, _ := resp.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func grant(t *testing.T, db *gorm.DB, email string, perms ...string) {
	t.Helper()

	var user models.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	user.Permissions = perms
	require.NoError(t, db.Save(&user).Error)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := testRouter(t)

	rec, resp := do(t, r, http.MethodPost, "/api/register", "", map[string]string{
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEmpty(t, resp.Errors)
}

func TestProductRejectsNegativeStockAndOldPrice(t *testing.T) {
	r, db := testRouter(t)
	token := registerAndLogin(t, r, "seller@example.com")

	rec, resp := do(t, r, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name":      "Broken lamp",
		"price":     10.0,
		"stock":     -5,
		"old_price": -10.0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, resp.Errors, "stock")
	assert.Contains(t, resp.Errors, "old_price")

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductLifecycleOverHTTP(t *testing.T) {
	r, db := testRouter(t)

	ownerToken := registerAndLogin(t, r, "owner@example.com")
	modToken := registerAndLogin(t, r, "mod@example.com")
	grant(t, db, "mod@example.com",
		authz.PermProductPublish, authz.PermProductUnpublish)

	// Create: status forced to draft.
	rec, resp := do(t, r, http.MethodPost, "/api/products", ownerToken, map[string]interface{}{
		"name":               "Oak table",
		"price":              249.0,
		"publication_status": "published",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "draft", resp.Data["publication_status"])
	productID := uint(resp.Data["ID"].(float64))

	// Anonymous listing: draft invisible.
	rec, resp = do(t, r, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Data["items"])

	// Anonymous detail: forbidden.
	rec, _ = do(t, r, http.MethodGet, fmt.Sprintf("/api/products/%d", productID), "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Owner cannot publish.
	rec, _ = do(t, r, http.MethodPost, fmt.Sprintf("/api/products/%d/publish", productID), ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Moderator publishes.
	rec, resp = do(t, r, http.MethodPost, fmt.Sprintf("/api/products/%d/publish", productID), modToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, resp.Data["is_published"])

	// Now visible to everyone.
	rec, resp = do(t, r, http.MethodGet, fmt.Sprintf("/api/products/%d", productID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	product := resp.Data["product"].(map[string]interface{})
	assert.Equal(t, "Oak table", product["name"])

	// Mass unpublish by the moderator.
	rec, resp = do(t, r, http.MethodPost, "/api/products/mass-unpublish", modToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), resp.Data["unpublished"])
}

// pngHeader is the PNG magic number, enough for content-type sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func doUpload(t *testing.T, r *router.Router, path, token, field string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "photo.png")
	require.NoError(t, err)
	_, err = fw.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	return rec
}

func storedFiles(t *testing.T, root string) []string {
	t.Helper()

	var files []string
	require.NoError(t, filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	}))
	return files
}

func TestRejectedImageUploadLeavesNoFile(t *testing.T) {
	r, _ := testRouter(t)

	root := t.TempDir()
	config.Set("STORAGE_LOCAL_ROOT", root)
	t.Cleanup(func() { config.Set("STORAGE_LOCAL_ROOT", "") })
	storage.Connect()

	ownerToken := registerAndLogin(t, r, "owner@example.com")
	strangerToken := registerAndLogin(t, r, "stranger@example.com")

	rec, resp := do(t, r, http.MethodPost, "/api/products", ownerToken, map[string]interface{}{
		"name":  "Oak table",
		"price": 249.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	productID := uint(resp.Data["ID"].(float64))

	// A stranger may not attach an image; the stored file must be removed.
	rec = doUpload(t, r, fmt.Sprintf("/api/products/%d/image", productID), strangerToken, "image")
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	assert.Empty(t, storedFiles(t, root))

	// Uploading against a missing product also cleans up.
	rec = doUpload(t, r, "/api/products/9999/image", ownerToken, "image")
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	assert.Empty(t, storedFiles(t, root))

	// The owner's upload stays on disk.
	rec = doUpload(t, r, fmt.Sprintf("/api/products/%d/image", productID), ownerToken, "image")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, storedFiles(t, root), 1)
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	r, _ := testRouter(t)

	rec, _ := do(t, r, http.MethodPost, "/api/products", "", map[string]interface{}{
		"name": "No auth", "price": 1.0,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, r, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBlogViewCountOverHTTP(t *testing.T) {
	r, db := testRouter(t)

	authorToken := registerAndLogin(t, r, "author@example.com")
	managerToken := registerAndLogin(t, r, "manager@example.com")
	grant(t, db, "manager@example.com", authz.ContentManagerPerms...)

	rec, resp := do(t, r, http.MethodPost, "/api/blog/posts", authorToken, map[string]string{
		"title": "Choosing a sofa",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "choosing-a-sofa", resp.Data["slug"])
	postID := uint(resp.Data["ID"].(float64))

	rec, _ = do(t, r, http.MethodPost, fmt.Sprintf("/api/blog/posts/%d/publish", postID), managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for want := 1; want <= 3; want++ {
		rec, resp = do(t, r, http.MethodGet, fmt.Sprintf("/api/blog/posts/%d", postID), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		post := resp.Data["post"].(map[string]interface{})
		assert.Equal(t, float64(want), post["views_count"])
	}
}

func TestRouteNamesRegistered(t *testing.T) {
	r, _ := testRouter(t)

	for _, name := range []string{
		"auth.register", "auth.login", "catalog.index", "catalog.show",
		"catalog.mass_unpublish", "catalog.moderation",
		"blog.index", "blog.show", "blog.my_posts", "contacts.show",
	} {
		_, ok := r.Path(name)
		assert.True(t, ok, name)
	}
}
