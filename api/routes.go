package api

import (
	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes sets up the reader-facing routes. Comment submission runs
// behind optional authentication so site settings decide whether anonymous
// submitters get through.
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/", handlers.postHandler.getHome())
		r.Get("/posts", handlers.postHandler.listPosts())
		r.Get("/post/{slug}", handlers.postHandler.getPost())
		r.Get("/categories", handlers.postHandler.listCategories())
		r.Get("/category/{slug}", handlers.postHandler.categoryPosts())
		r.Get("/tags", handlers.postHandler.listTags())
		r.Get("/tag/{slug}", handlers.postHandler.tagPosts())
		r.Get("/search", handlers.postHandler.searchPosts())
		r.Get("/archive", handlers.postHandler.getArchive())
		r.Get("/archive/{year}/{month}", handlers.postHandler.getArchiveMonth())

		r.With(auth.maybeAuthenticate).
			Post("/post/{slug}/comments", handlers.commentHandler.submitComment())

		r.Post("/register", handlers.accountHandler.register())
		r.Post("/login", handlers.accountHandler.login())
	})
}

// setupAccountRoutes sets up routes that require a logged-in user
func setupAccountRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(auth.authenticate)

		r.Get("/profile", handlers.accountHandler.getProfile())
		r.Put("/profile", handlers.accountHandler.updateProfile())
	})
}

// setupDashboardRoutes sets up the staff-only management routes
func setupDashboardRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(auth.authenticate)
		r.Use(auth.requireStaff)

		r.Get("/stats", handlers.dashboardHandler.getStats())

		r.Get("/posts", handlers.dashboardHandler.listAllPosts())
		r.Post("/post", handlers.dashboardHandler.createPost())
		r.Put("/post/{postID}", handlers.dashboardHandler.updatePost())
		r.Delete("/post/{postID}", handlers.dashboardHandler.deletePost())

		r.Get("/comments", handlers.dashboardHandler.listComments())
		r.Post("/comment/{commentID}/approve", handlers.dashboardHandler.approveComment())
		r.Post("/comment/{commentID}/reject", handlers.dashboardHandler.rejectComment())
		r.Delete("/comment/{commentID}", handlers.dashboardHandler.deleteComment())

		r.Post("/category", handlers.dashboardHandler.createCategory())
		r.Put("/category/{categoryID}", handlers.dashboardHandler.updateCategory())
		r.Delete("/category/{categoryID}", handlers.dashboardHandler.deleteCategory())
		r.Post("/categories/bulk", handlers.dashboardHandler.bulkCreateCategories())

		r.Post("/tag", handlers.dashboardHandler.createTag())
		r.Put("/tag/{tagID}", handlers.dashboardHandler.updateTag())
		r.Delete("/tag/{tagID}", handlers.dashboardHandler.deleteTag())
		r.Post("/tags/bulk", handlers.dashboardHandler.bulkCreateTags())

		r.Post("/upload", handlers.dashboardHandler.uploadImage())
	})
}
