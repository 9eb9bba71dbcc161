// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rmiras/personal-site-api/internal/handler"
	"github.com/rmiras/personal-site-api/internal/middleware"
)

// RegisterRoutes registers routes that never require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register, login,
// refresh and logout live under /v1/auth without a token; /v1/me requires
// a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, users middleware.UserResolver) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret, users))
	auth.GET("/me", a.Me)
}

// RegisterResources registers every owner-scoped resource under /v1 behind
// the JWT gate. No repository call runs before the middleware accepts the
// bearer token and resolves it to an active user.
func RegisterResources(e *echo.Echo, h *handler.ResourceHandler, jwtSecret string, users middleware.UserResolver) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret, users))

	g.GET("/tags", h.ListTags)
	g.POST("/tags", h.CreateTag)
	g.GET("/tags/:id", h.GetTag)
	g.PUT("/tags/:id", h.UpdateTag)
	g.PATCH("/tags/:id", h.UpdateTag)
	g.DELETE("/tags/:id", h.DeleteTag)

	g.GET("/pictures", h.ListPictures)
	g.POST("/pictures", h.CreatePicture)
	g.GET("/pictures/:id", h.GetPicture)
	g.PUT("/pictures/:id", h.UpdatePicture)
	g.PATCH("/pictures/:id", h.UpdatePicture)
	g.DELETE("/pictures/:id", h.DeletePicture)
	g.POST("/pictures/:id/upload-image", h.UploadPictureImage)

	g.GET("/blogs", h.ListBlogs)
	g.POST("/blogs", h.CreateBlog)
	g.GET("/blogs/:id", h.GetBlog)
	g.PUT("/blogs/:id", h.UpdateBlog)
	g.PATCH("/blogs/:id", h.UpdateBlog)
	g.DELETE("/blogs/:id", h.DeleteBlog)

	g.GET("/slideshows", h.ListSlideshows)
	g.POST("/slideshows", h.CreateSlideshow)
	g.GET("/slideshows/:id", h.GetSlideshow)
	g.PUT("/slideshows/:id", h.UpdateSlideshow)
	g.PATCH("/slideshows/:id", h.UpdateSlideshow)
	g.DELETE("/slideshows/:id", h.DeleteSlideshow)

	g.GET("/projects", h.ListProjects)
	g.POST("/projects", h.CreateProject)
	g.GET("/projects/:id", h.GetProject)
	g.PUT("/projects/:id", h.UpdateProject)
	g.PATCH("/projects/:id", h.UpdateProject)
	g.DELETE("/projects/:id", h.DeleteProject)
}
