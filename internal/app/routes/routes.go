package routes

import (
	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/campusportal/internal/app/auth"
	"github.com/yigit/campusportal/internal/app/controllers"
	"github.com/yigit/campusportal/internal/middleware"
	"github.com/yigit/campusportal/internal/pkg/websocket"
)

// Controllers bundles every HTTP handler the router mounts
type Controllers struct {
	Auth      *controllers.AuthController
	Sections  *controllers.SectionController
	Students  *controllers.StudentController
	Files     *controllers.FileController
	News      *controllers.NewsController
	Knowledge *controllers.KnowledgeController
	Health    *controllers.HealthController
	WebSocket *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", c.Health.Health)

	api := router.Group("/api")

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.GET("/me", authMiddleware.JWTAuth(), c.Auth.Me)
	}

	// --- Admin routes ---
	admin := api.Group("/admin")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.RequireCapability(appAuth.CapabilityManageContent))
	{
		admin.GET("/sections", c.Sections.ListSections)
		admin.POST("/sections", c.Sections.CreateSection)
		admin.DELETE("/sections/:id", c.Sections.DeleteSection)

		admin.GET("/students", c.Students.ListStudents)
		admin.POST("/students", c.Students.CreateStudent)
		admin.DELETE("/students/:id", c.Students.DeleteStudent)

		admin.GET("/files", c.Files.ListFiles)
		admin.POST("/files", c.Files.UploadFile)
		admin.DELETE("/files/:id", c.Files.DeleteFile)

		admin.GET("/news", c.News.ListNews)
		admin.POST("/news", c.News.CreateNews)
		admin.DELETE("/news/:id", c.News.DeleteNews)

		admin.GET("/knowledge-base", c.Knowledge.ListEntries)
		admin.POST("/knowledge-base", c.Knowledge.CreateEntry)
		admin.DELETE("/knowledge-base/:id", c.Knowledge.DeleteEntry)
	}

	// --- Student routes, open to every role ---
	student := api.Group("/student")
	student.Use(authMiddleware.JWTAuth(), authMiddleware.RequireCapability(appAuth.CapabilityViewContent))
	{
		student.GET("/sections", c.Sections.ListSections)
		student.GET("/files/:sectionId", c.Files.ListSectionFiles)
		student.GET("/news", c.News.ListNews)
		student.POST("/assistant/search", c.Knowledge.Search)
	}

	// --- Broadcast subscription ---
	router.GET("/ws",
		authMiddleware.JWTAuth(),
		authMiddleware.RequireCapability(appAuth.CapabilitySubscribe),
		c.WebSocket.HandleConnection,
	)
}
