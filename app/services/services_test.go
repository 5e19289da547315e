package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zmaxim/skystore/app/authz"
	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/app/repositories"
	"github.com/zmaxim/skystore/pkg/notification"
)

func testDB(t *testing.T) *gorm.DB {
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

	return db
}

// capturedSender records notifications instead of sending email.
type capturedSender struct {
	messages []notification.Message
}

func (c *capturedSender) send(msg notification.Message) {
	c.messages = append(c.messages, msg)
}

func newCatalog(t *testing.T) (*CatalogService, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	return NewCatalogService(
		repositories.NewProductRepository(db),
		repositories.NewCategoryRepository(db),
	), db
}

func newBlog(t *testing.T) (*BlogService, *capturedSender, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	sender := &capturedSender{}
	return NewBlogService(repositories.NewBlogRepository(db), sender.send), sender, db
}

func plainActor(id uint) *authz.Actor {
	return &authz.Actor{ID: id, Email: "user@example.com"}
}

func actorWith(id uint, perms ...string) *authz.Actor {
	return &authz.Actor{ID: id, Permissions: perms}
}
