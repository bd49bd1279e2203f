package v1

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	servermiddleware "github.com/agentgraph/platform-api/cmd/server/internal/middleware"
	"github.com/agentgraph/platform-api/cmd/server/internal/models"
	"github.com/agentgraph/platform-api/internal/config"
)

const name = "github.com/agentgraph/platform-api/cmd/server/internal/routes/v1"

var tracer = otel.Tracer(name)

type Handler struct {
	DB     *gorm.DB
	config *config.Config
}

func NewHandler(db *gorm.DB, cfg *config.Config) Handler {
	return Handler{
		DB:     db,
		config: cfg,
	}
}

func (h *Handler) AddRoutes(e *echo.Echo, middlewareHandler *servermiddleware.Handler) {
	v1Group := e.Group("/v1", middleware.BasicAuth(middlewareHandler.BasicAuthValidator))

	v1Group.GET("/ping/", h.Ping)

	graphGroup := v1Group.Group(
		"/graph",
		servermiddleware.HasPermissions("apikey", &models.Permissions{Graphs: true}),
	)

	graphGroup.POST("/", h.SubmitGraph)
	graphGroup.GET(
		"/:graph_id/",
		h.GetGraph,
		servermiddleware.PopulateFromIDParam[models.Graph](middlewareHandler, "graph_id", "graph"),
	)
	graphGroup.DELETE(
		"/:graph_id/",
		h.DeactivateGraph,
		servermiddleware.PopulateFromIDParam[models.Graph](middlewareHandler, "graph_id", "graph"),
	)

	executionGroup := graphGroup.Group(
		"/:graph_id/execution",
		servermiddleware.HasPermissions("apikey", &models.Permissions{Executions: true}),
		servermiddleware.PopulateFromIDParam[models.Graph](middlewareHandler, "graph_id", "graph"),
	)

	executionGroup.POST("/", h.SubmitExecution)
	executionGroup.GET(
		"/:execution_id/",
		h.GetExecution,
		servermiddleware.PopulateFromIDParam[models.GraphExecution](
			middlewareHandler,
			"execution_id",
			"execution",
		),
	)
	executionGroup.PATCH(
		"/:execution_id/",
		h.PatchExecution,
		servermiddleware.PopulateFromIDParam[models.GraphExecution](
			middlewareHandler,
			"execution_id",
			"execution",
		),
	)
}
