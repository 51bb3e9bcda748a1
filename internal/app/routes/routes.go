package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/studentportal/internal/app/controllers"
	"github.com/yigit/studentportal/internal/app/models/dto"
	"github.com/yigit/studentportal/internal/middleware"
)

// Options switches optional route guards
type Options struct {
	// RequireSession puts the course routes behind a bearer session owned by the requested student
	RequireSession bool
	// LoginLimiter throttles login attempts per client IP; nil disables it
	LoginLimiter *middleware.IPRateLimiter
}

// SetupRouter configures all application routes. Every route is served both
// at the root and under /api.
func SetupRouter(
	router *gin.Engine,
	opts Options,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	for _, group := range []*gin.RouterGroup{&router.RouterGroup, router.Group("/api")} {
		registerRoutes(group, opts, authController, courseController, healthController, authMiddleware)
	}

	router.NoRoute(middleware.NotFound())
}

func registerRoutes(
	group *gin.RouterGroup,
	opts Options,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// --- Health ---
	group.GET("/test", healthController.Test)
	group.GET("/ping", healthController.Ping)

	// --- Auth ---
	login := []gin.HandlerFunc{}
	if opts.LoginLimiter != nil {
		login = append(login, opts.LoginLimiter.Middleware())
	}
	login = append(login, middleware.ValidateJSON[dto.LoginRequest](), authController.Login)
	group.POST("/login", login...)
	group.POST("/logout", authController.Logout)
	group.GET("/me", authController.Me)

	// --- Courses ---
	courses := group.Group("/courses")
	if opts.RequireSession {
		courses.Use(
			authMiddleware.SessionAuth(),
			authMiddleware.StudentOwnership(controllers.ParamStudentID, controllers.ParamNameContactID),
		)
	}
	{
		courses.GET("/pursuing", courseController.GetPursuingCourses)
		courses.GET("/completed", courseController.GetCompletedCourses)
		courses.GET("/pending", courseController.GetPendingCourses)
		courses.GET("/details", courseController.GetCourseDetails)
	}
}
