// Package routes wires the HTTP surface onto the controllers.
package routes

import (
	"fmt"

	"github.com/nairobitech/duka/app/controllers"
	appgraphql "github.com/nairobitech/duka/app/graphql"
	"github.com/nairobitech/duka/app/repositories"
	"github.com/nairobitech/duka/app/services"
	"github.com/nairobitech/duka/pkg/middleware"
	"github.com/nairobitech/duka/pkg/orm"
	"github.com/nairobitech/duka/pkg/rbac"
	"github.com/nairobitech/duka/pkg/router"
)

// principalLoader resolves an authenticated user id to its principal.
// A missing row means the account was deleted; the auth middleware then
// destroys the session and rejects the request.
func principalLoader() middleware.PrincipalLoader {
	users := repositories.NewUserRepository()
	return func(userID string) (middleware.Principal, error) {
		user, err := users.FindByID(userID)
		if err != nil {
			if orm.IsNotFound(err) {
				return middleware.Principal{}, fmt.Errorf("unknown user %s", userID)
			}
			return middleware.Principal{}, err
		}
		return middleware.Principal{ID: user.ID, Email: user.Email, Role: user.Role}, nil
	}
}

// RegisterAPI mounts every route. Called once at boot.
func RegisterAPI(r *router.Router) error {
	authController := controllers.NewAuthController()
	categoryController := controllers.NewCategoryController()
	productController := controllers.NewProductController()
	reviewController := controllers.NewReviewController()
	orderController := controllers.NewOrderController()
	adminController := controllers.NewAdminController()
	sitemapController := controllers.NewSitemapController()

	schema, err := appgraphql.NewSchema(services.NewCatalogService())
	if err != nil {
		return fmt.Errorf("routes: build graphql schema: %w", err)
	}

	r.Get("/sitemap.xml", "sitemap", sitemapController.Show)

	api := r.Group("/api")

	// Public catalogue and auth.
	api.Get("/categories", "categories.index", categoryController.Index)
	api.Get("/products", "products.index", productController.Index)
	api.Get("/products/featured", "products.featured", productController.Featured)
	api.Get("/products/{id}", "products.show", productController.Show)
	api.Get("/products/{id}/reviews", "reviews.index", reviewController.Index)
	api.Post("/auth/register", "auth.register", authController.Register)
	api.Post("/auth/login", "auth.login", authController.Login)
	api.Post("/auth/logout", "auth.logout", authController.Logout)
	api.Post("/graphql", "graphql", appgraphql.Handler(schema))

	// Authenticated.
	protected := api.Group("", middleware.Auth(principalLoader()))
	protected.Get("/auth/user", "auth.user", authController.CurrentUser)
	protected.Get("/orders", "orders.index", orderController.Index)
	protected.Post("/orders", "orders.store", orderController.Store)
	protected.Post("/products/{id}/reviews", "reviews.store", reviewController.Store)
	protected.Put("/reviews/{id}", "reviews.update", reviewController.Update)
	protected.Delete("/reviews/{id}", "reviews.destroy", reviewController.Destroy)
	protected.Post("/reviews/{id}/helpful", "reviews.helpful", reviewController.Helpful)

	// Back office.
	admin := protected.Group("", rbac.HasRole("admin"))
	admin.Post("/categories", "categories.store", categoryController.Store)
	admin.Put("/categories/{id}", "categories.update", categoryController.Update)
	admin.Delete("/categories/{id}", "categories.destroy", categoryController.Destroy)
	admin.Post("/products", "products.store", productController.Store)
	admin.Put("/products/{id}", "products.update", productController.Update)
	admin.Delete("/products/{id}", "products.destroy", productController.Destroy)
	admin.Post("/admin/products/{id}/images", "products.images.store", productController.UploadImage)
	admin.Put("/orders/{id}/status", "orders.status", orderController.SetStatus)
	admin.Get("/admin/orders", "admin.orders", orderController.AdminIndex)
	admin.Get("/admin/orders/feed", "admin.orders.feed", orderController.Feed)
	admin.Get("/admin/stats", "admin.stats", adminController.Stats)
	admin.Get("/admin/users", "admin.users", adminController.Users)
	admin.Post("/admin/users", "admin.users.store", adminController.StoreUser)
	admin.Delete("/admin/users/{id}", "admin.users.destroy", adminController.DestroyUser)

	return nil
}
