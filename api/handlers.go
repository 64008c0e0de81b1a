package api

import (
	"github.com/jhzhou002/blog-yk/config"
	"github.com/jhzhou002/blog-yk/database"
	"github.com/jhzhou002/blog-yk/services"
)

type routeHandlers struct {
	postHandler      postHandler
	commentHandler   commentHandler
	accountHandler   accountHandler
	dashboardHandler dashboardHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, settings config.SiteSettings, uploader *services.Uploader, jwtSecret []byte) *routeHandlers {
	return &routeHandlers{
		postHandler:      newPostHandler(db, settings),
		commentHandler:   newCommentHandler(db, settings),
		accountHandler:   newAccountHandler(db.UserRepo(), jwtSecret),
		dashboardHandler: newDashboardHandler(db, uploader),
	}
}
