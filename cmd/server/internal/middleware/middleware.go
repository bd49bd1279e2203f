package middleware

import (
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

const name string = "github.com/agentgraph/platform-api/cmd/server/internal/middleware"

var tracer = otel.Tracer(name)

type Handler struct {
	DB *gorm.DB
}
