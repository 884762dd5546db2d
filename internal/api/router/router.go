package router

import (
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/workproof/jobsvc/docs"
	"github.com/workproof/jobsvc/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	jobHandler := handler.NewJobHandler(deps)

	// Job lifecycle endpoints
	r.POST("/start", jobHandler.StartJob)
	r.GET("/status/:job_id", jobHandler.GetStatus)
	r.GET("/results/:job_id", jobHandler.GetResults)

	// Health check endpoint
	r.GET("/health", jobHandler.Health)

	// Operator endpoints for the dead-letter queue
	admin := r.Group("/admin")
	{
		admin.GET("/dlq", jobHandler.ListDeadLetters)
		admin.POST("/dlq/replay", jobHandler.ReplayDeadLetters)
	}

	// Swagger UI
	r.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	)))

	return r
}
