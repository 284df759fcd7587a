package router

import (
	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"github.com/valyala/fasthttp/pprofhandler"

	apiHandler "github.com/fastygo/todo/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	List    *apiHandler.ListHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

type Options struct {
	EnableMetrics bool
	EnablePprof   bool
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, opts Options) *router.Router {
	r := router.New()
	r.SaveMatchedRoutePath = true

	r.GET("/health", handlers.Health.Check)
	if opts.EnableMetrics {
		r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))
	}
	if opts.EnablePprof {
		r.GET("/debug/pprof/{profile:*}", pprofhandler.PprofHandler)
	}

	// Auth routes
	r.POST("/auth/register", handlers.Auth.Register)
	r.POST("/auth/login", handlers.Auth.Login)
	r.GET("/auth/validate", handlers.Auth.Validate)
	r.POST("/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Protected routes
	r.GET("/user", authMiddleware(handlers.Profile.GetProfile))
	r.PATCH("/user", authMiddleware(handlers.Profile.UpdateProfile))
	r.DELETE("/user", authMiddleware(handlers.Profile.DeleteProfile))

	r.GET("/list", authMiddleware(handlers.List.GetLists))
	r.POST("/list", authMiddleware(handlers.List.CreateList))
	r.GET("/list/{id}", authMiddleware(handlers.List.GetList))
	r.PATCH("/list/{id}", authMiddleware(handlers.List.UpdateList))
	r.DELETE("/list/{id}", authMiddleware(handlers.List.DeleteList))

	r.GET("/task/list/{listId}", authMiddleware(handlers.Task.GetTasks))
	r.GET("/task/{id}", authMiddleware(handlers.Task.GetTask))
	r.POST("/task/{listId}", authMiddleware(handlers.Task.CreateTask))
	r.PATCH("/task/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.PATCH("/task/{id}/toggle", authMiddleware(handlers.Task.ToggleTask))
	r.DELETE("/task/{id}", authMiddleware(handlers.Task.DeleteTask))

	return r
}
