package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/echovault/echovault/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	aiHandler      *AI
	recHandler     *Recording
	graphHandler   *Graph
	folderHandler  *Folder
	profileHandler *Profile
	kgHandler      *KnowledgeGraph
	eventsHandler  *Events
	auth           echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	aiHandler *AI,
	recHandler *Recording,
	graphHandler *Graph,
	folderHandler *Folder,
	profileHandler *Profile,
	kgHandler *KnowledgeGraph,
	eventsHandler *Events,
	auth echo.MiddlewareFunc,
) *Router {
	return &Router{
		cfg:            cfg,
		aiHandler:      aiHandler,
		recHandler:     recHandler,
		graphHandler:   graphHandler,
		folderHandler:  folderHandler,
		profileHandler: profileHandler,
		kgHandler:      kgHandler,
		eventsHandler:  eventsHandler,
		auth:           auth,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAIRoutes(v1)
	rt.setupRecordingRoutes(v1)
	rt.setupViewRoutes(v1)
	rt.setupFolderRoutes(v1)
	rt.setupProfileRoutes(v1)
	rt.setupKnowledgeGraphRoutes(v1)
}

// setupAIRoutes configures the transcription and analysis service endpoints.
// Both carry an explicit OPTIONS preflight with permissive CORS since they
// are called directly from browsers.
func (rt *Router) setupAIRoutes(g *echo.Group) {
	g.POST("/transcribe", rt.aiHandler.Transcribe, rt.auth)
	g.OPTIONS("/transcribe", rt.aiHandler.Preflight)
	g.POST("/analyze", rt.aiHandler.Analyze, rt.auth)
	g.OPTIONS("/analyze", rt.aiHandler.Preflight)
}

// setupRecordingRoutes configures the pipeline and library routes
func (rt *Router) setupRecordingRoutes(g *echo.Group) {
	recGroup := g.Group("/recordings", rt.auth)

	recGroup.POST("", rt.recHandler.Save)
	recGroup.GET("", rt.recHandler.List)
	recGroup.GET("/:id", rt.recHandler.Get)
	recGroup.PATCH("/:id", rt.recHandler.Rename)
	recGroup.DELETE("/:id", rt.recHandler.Delete)
	recGroup.GET("/:id/download", rt.recHandler.Download)
	recGroup.POST("/:id/share", rt.recHandler.Share)

	// Public share lookup, no auth
	g.GET("/shared/:token", rt.recHandler.ResolveShare)
}

// setupViewRoutes configures the derived read-only views
func (rt *Router) setupViewRoutes(g *echo.Group) {
	g.GET("/search", rt.recHandler.Search, rt.auth)
	g.GET("/stats", rt.recHandler.Stats, rt.auth)
	g.GET("/graph", rt.graphHandler.Build, rt.auth)
	g.GET("/events", rt.eventsHandler.Stream, rt.auth)
}

// setupFolderRoutes configures folder CRUD and the folder-recording join
func (rt *Router) setupFolderRoutes(g *echo.Group) {
	folderGroup := g.Group("/folders", rt.auth)

	folderGroup.POST("", rt.folderHandler.Create)
	folderGroup.GET("", rt.folderHandler.List)
	folderGroup.DELETE("/:id", rt.folderHandler.Delete)
	folderGroup.POST("/:id/recordings", rt.folderHandler.AddRecording)
	folderGroup.DELETE("/:id/recordings/:recordingId", rt.folderHandler.RemoveRecording)
	folderGroup.GET("/:id/recordings", rt.folderHandler.ListRecordings)
}

// setupProfileRoutes configures profile access
func (rt *Router) setupProfileRoutes(g *echo.Group) {
	profileGroup := g.Group("/profile", rt.auth)

	profileGroup.GET("", rt.profileHandler.Get)
	profileGroup.PATCH("", rt.profileHandler.Update)
	profileGroup.POST("/avatar", rt.profileHandler.UploadAvatar)
}

// setupKnowledgeGraphRoutes configures the shared authored graph table
func (rt *Router) setupKnowledgeGraphRoutes(g *echo.Group) {
	kgGroup := g.Group("/knowledge-graph", rt.auth)

	kgGroup.GET("", rt.kgHandler.List)
	kgGroup.PUT("", rt.kgHandler.Upsert)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
