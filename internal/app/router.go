package app

import (
	"course_market_backend/docs"
	"course_market_backend/internal/middleware"
	"course_market_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.Use(middleware.RequestID())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(api, c)

	// 2. 需要授权的路由
	authGroup := api.Group("")
	authGroup.Use(middleware.AuthMiddleware(s.auth))
	{
		a.registerCourseRoutes(authGroup, c)
		a.registerLearnerRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/health", c.health.HealthCheck)
	api.POST("/register", c.auth.Register)
	api.POST("/login", c.auth.Login)
	api.GET("/courses", c.course.ListPublished)
}

func (a *App) registerCourseRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/instructor/courses", c.course.ListMine)
	rg.POST("/courses", c.course.CreateCourse)
	rg.PUT("/courses/:id", c.course.UpdateCourse)
	rg.DELETE("/courses/:id", c.course.DeleteCourse)
	rg.POST("/courses/:id/rate", c.course.RateCourse)
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/enroll", c.enrollment.Enroll)
	rg.GET("/my-courses", c.enrollment.MyCourses)
	rg.GET("/total-students", c.user.TotalStudents)
	rg.GET("/dashboard", c.user.Dashboard)
}
