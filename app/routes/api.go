// Package routes wires controllers onto the router.
package routes

import (
	"gorm.io/gorm"

	"github.com/zmaxim/skystore/app/controllers"
	"github.com/zmaxim/skystore/app/jobs"
	"github.com/zmaxim/skystore/app/repositories"
	"github.com/zmaxim/skystore/app/services"
	"github.com/zmaxim/skystore/pkg/metrics"
	"github.com/zmaxim/skystore/pkg/middleware"
	"github.com/zmaxim/skystore/pkg/router"
)

// Register builds every repository, service and controller against db and
// mounts the full API surface on r.
func Register(r *router.Router, db *gorm.DB) {
	users := repositories.NewUserRepository(db)
	products := repositories.NewProductRepository(db)
	categories := repositories.NewCategoryRepository(db)
	posts := repositories.NewBlogRepository(db)
	contacts := repositories.NewContactRepository(db)

	// Notifications go through the job queue so handlers never block on SMTP.
	authSvc := services.NewAuthService(users, jobs.QueueMail)
	catalogSvc := services.NewCatalogService(products, categories)
	blogSvc := services.NewBlogService(posts, jobs.QueueMail)

	resolver := controllers.NewActorResolver(users)
	authCtrl := controllers.NewAuthController(authSvc, resolver)
	productCtrl := controllers.NewProductController(catalogSvc, resolver)
	categoryCtrl := controllers.NewCategoryController(categories, resolver)
	blogCtrl := controllers.NewBlogController(blogSvc, resolver)
	homeCtrl := controllers.NewHomeController(catalogSvc, contacts)

	api := r.Group("/api")
	public := api.Group("", middleware.OptionalAuth)
	private := api.Group("", middleware.RequireAuth)

	// Accounts.
	api.Post("/register", "auth.register", authCtrl.Register)
	api.Post("/login", "auth.login", authCtrl.Login)
	private.Get("/profile", "auth.profile", authCtrl.Profile)
	private.Post("/profile", "auth.profile_update", authCtrl.UpdateProfile)

	// Storefront.
	public.Get("/home", "home.index", homeCtrl.Home)
	public.Get("/contacts", "contacts.show", homeCtrl.ShowContacts)
	public.Post("/contacts", "contacts.form", homeCtrl.SubmitContactForm)

	// Catalog.
	public.Get("/products", "catalog.index", productCtrl.Index)
	public.Get("/products/moderation", "catalog.moderation", productCtrl.Moderation)
	public.Get("/products/{id}", "catalog.show", productCtrl.Show)
	private.Post("/products", "catalog.store", productCtrl.Store)
	private.Post("/products/mass-unpublish", "catalog.mass_unpublish", productCtrl.MassUnpublish)
	private.Post("/products/{id}", "catalog.update", productCtrl.Update)
	private.Post("/products/{id}/delete", "catalog.delete", productCtrl.Delete)
	private.Post("/products/{id}/publish", "catalog.publish", productCtrl.Publish)
	private.Post("/products/{id}/unpublish", "catalog.unpublish", productCtrl.Unpublish)
	private.Post("/products/{id}/change-status", "catalog.change_status", productCtrl.ChangeStatus)
	private.Post("/products/{id}/image", "catalog.image", productCtrl.UploadImage)

	// Categories.
	public.Get("/categories", "category.index", categoryCtrl.Index)
	private.Post("/categories", "category.store", categoryCtrl.Store)
	private.Post("/categories/{id}/delete", "category.delete", categoryCtrl.Delete)

	// Blog.
	public.Get("/blog/posts", "blog.index", blogCtrl.Index)
	private.Get("/blog/my-posts", "blog.my_posts", blogCtrl.MyPosts)
	public.Get("/blog/posts/{id}", "blog.show", blogCtrl.Show)
	private.Post("/blog/posts", "blog.store", blogCtrl.Store)
	private.Post("/blog/posts/{id}", "blog.update", blogCtrl.Update)
	private.Post("/blog/posts/{id}/delete", "blog.delete", blogCtrl.Delete)
	private.Post("/blog/posts/{id}/publish", "blog.publish", blogCtrl.Publish)
	private.Post("/blog/posts/{id}/unpublish", "blog.unpublish", blogCtrl.Unpublish)
	private.Post("/blog/posts/{id}/change-status", "blog.change_status", blogCtrl.ChangeStatus)
	private.Post("/blog/posts/{id}/preview", "blog.preview", blogCtrl.UploadPreview)

	// Operations.
	r.HandleFunc("/metrics", metrics.Handler())
}
