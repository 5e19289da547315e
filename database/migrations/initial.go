package migrations

import (
	"gorm.io/gorm"

	"github.com/zmaxim/skystore/app/models"
	"github.com/zmaxim/skystore/pkg/migration"
)

func init() {
	migration.Register("20260110000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260110000001_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20260110000002_create_products_table", &CreateProductsTable{})
	migration.Register("20260110000003_create_blog_posts_table", &CreateBlogPostsTable{})
	migration.Register("20260110000004_create_contacts_table", &CreateContactsTable{})
}

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categories")
}

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

type CreateBlogPostsTable struct{}

func (m *CreateBlogPostsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.BlogPost{})
}

func (m *CreateBlogPostsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("blog_posts")
}

type CreateContactsTable struct{}

func (m *CreateContactsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Contact{})
}

func (m *CreateContactsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("contacts")
}
