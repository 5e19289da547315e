package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&User{}, &Category{}, &Product{}, &BlogPost{}, &Contact{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

func TestProductBeforeSaveSyncsIsPublished(t *testing.T) {
	db := testDB(t)

	p := Product{Name: "Desk lamp", Price: 10, PublicationStatus: ProductStatusPublished}
	require.NoError(t, db.Create(&p).Error)
	assert.True(t, p.IsPublished)

	// Direct tampering with IsPublished is undone on the next save.
	p.IsPublished = true
	p.PublicationStatus = ProductStatusReview
	require.NoError(t, db.Save(&p).Error)

	var got Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, ProductStatusReview, got.PublicationStatus)
	assert.False(t, got.IsPublished)
}

func TestProductDefaultsToDraft(t *testing.T) {
	db := testDB(t)

	p := Product{Name: "Chair", Price: 25, PublicationStatus: ProductStatusDraft}
	require.NoError(t, db.Create(&p).Error)

	var got Product
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, ProductStatusDraft, got.PublicationStatus)
	assert.False(t, got.IsPublished)
}

func TestValidProductStatus(t *testing.T) {
	for _, s := range ProductStatuses {
		assert.True(t, ValidProductStatus(s), s)
	}
	assert.False(t, ValidProductStatus("archived"))
	assert.False(t, ValidProductStatus(""))
}

func TestBlogPostPublishedAtStampedOnce(t *testing.T) {
	db := testDB(t)

	b := BlogPost{Title: "Hello", Slug: "hello", PublicationStatus: BlogStatusDraft}
	require.NoError(t, db.Create(&b).Error)
	assert.Nil(t, b.PublishedAt)

	b.PublicationStatus = BlogStatusPublished
	require.NoError(t, db.Save(&b).Error)
	require.NotNil(t, b.PublishedAt)
	first := *b.PublishedAt

	// Archiving keeps the original publish date.
	time.Sleep(5 * time.Millisecond)
	b.PublicationStatus = BlogStatusArchived
	require.NoError(t, db.Save(&b).Error)

	var got BlogPost
	require.NoError(t, db.First(&got, b.ID).Error)
	assert.False(t, got.IsPublished)
	require.NotNil(t, got.PublishedAt)
	assert.WithinDuration(t, first, *got.PublishedAt, time.Second)

	// Republishing does not move the stamp either.
	got.PublicationStatus = BlogStatusPublished
	require.NoError(t, db.Save(&got).Error)
	assert.WithinDuration(t, first, *got.PublishedAt, time.Second)
}

func TestValidBlogStatus(t *testing.T) {
	for _, s := range BlogStatuses {
		assert.True(t, ValidBlogStatus(s), s)
	}
	assert.False(t, ValidBlogStatus("review"))
}

func TestUserHasPerm(t *testing.T) {
	u := User{Permissions: []string{"catalog.product.publish", "catalog.product.unpublish"}}
	assert.True(t, u.HasPerm("catalog.product.publish"))
	assert.False(t, u.HasPerm("blog.post.publish"))

	var none User
	assert.False(t, none.HasPerm("catalog.product.publish"))
}

func TestUserPermissionsRoundTrip(t *testing.T) {
	db := testDB(t)

	u := User{
		Email:       "mod@example.com",
		Password:    "x",
		Role:        "product_moderator",
		Permissions: []string{"catalog.product.publish", "catalog.product.delete_any"},
	}
	require.NoError(t, db.Create(&u).Error)

	var got User
	require.NoError(t, db.First(&got, u.ID).Error)
	assert.Equal(t, u.Permissions, got.Permissions)
}

func TestOwnedBy(t *testing.T) {
	owner := uint(7)

	p := Product{OwnerID: &owner}
	assert.True(t, p.OwnedBy(7))
	assert.False(t, p.OwnedBy(8))

	var orphan Product
	assert.False(t, orphan.OwnedBy(7))

	b := BlogPost{AuthorID: &owner}
	assert.True(t, b.OwnedBy(7))

	var anon BlogPost
	assert.False(t, anon.OwnedBy(7))
}
