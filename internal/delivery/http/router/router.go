// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"folio/internal/delivery/http/middleware"
	"folio/internal/delivery/http/router/handler"
)

type RouterParams struct {
	fx.In

	AccountHandler   *handler.AccountHandler
	PortfolioHandler *handler.PortfolioHandler
	GateMiddleware   *middleware.GateMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler   *handler.AccountHandler
	portfolioHandler *handler.PortfolioHandler
	gateMiddleware   *middleware.GateMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:   params.AccountHandler,
		portfolioHandler: params.PortfolioHandler,
		gateMiddleware:   params.GateMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Account routes
	accountGroup := e.Group("/account")
	{
		accountGroup.POST("/register", r.accountHandler.Register)
		accountGroup.POST("/login", r.accountHandler.Login)
	}

	// Account routes that require the session cookie pair
	sessionGroup := e.Group("/account")
	sessionGroup.Use(r.gateMiddleware.Authorize)
	{
		sessionGroup.GET("/session", r.accountHandler.Session)
		sessionGroup.DELETE("", r.accountHandler.Delete)
	}

	// Public portfolio page data
	e.GET("/portfolio/view/:profileID", r.portfolioHandler.GetPublicProfile)

	// Portfolio routes that require the session cookie pair
	portfolioGroup := e.Group("/portfolio")
	portfolioGroup.Use(r.gateMiddleware.Authorize)
	{
		portfolioGroup.GET("/profile", r.portfolioHandler.GetProfile)
		portfolioGroup.PUT("/profile", r.portfolioHandler.UpdateProfile)
		portfolioGroup.PUT("/contact", r.portfolioHandler.UpsertContact)
		portfolioGroup.PUT("/social-media", r.portfolioHandler.UpsertSocialMedia)
		portfolioGroup.GET("/projects", r.portfolioHandler.ListProjects)
		portfolioGroup.POST("/projects", r.portfolioHandler.AddProject)
		portfolioGroup.DELETE("/projects/:projectID", r.portfolioHandler.RemoveProject)
		portfolioGroup.POST("/skills", r.portfolioHandler.AddSkill)
		portfolioGroup.DELETE("/skills/:skillID", r.portfolioHandler.RemoveSkill)
	}
}
