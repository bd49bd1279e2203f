package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"

	srverr "github.com/agentgraph/platform-api/cmd/server/internal/error"
	"github.com/agentgraph/platform-api/cmd/server/internal/models"
	"github.com/agentgraph/platform-api/cmd/server/internal/response"
	"github.com/agentgraph/platform-api/internal/types"
	"github.com/agentgraph/platform-api/internal/validator"
)

func graphResponse(graph *models.Graph) types.GraphResponse {
	nodes := make([]types.NodeResponse, 0, len(graph.Nodes))
	for _, node := range graph.Nodes {
		nodes = append(nodes, types.NodeResponse{
			ID:            node.ID.String(),
			BlockID:       node.BlockID,
			ConstantInput: map[string]any(node.ConstantInput),
			Metadata:      map[string]any(node.Metadata),
		})
	}

	return types.GraphResponse{
		ID:          graph.ID.String(),
		Name:        graph.Name,
		Description: graph.Description,
		Version:     graph.Version,
		IsActive:    graph.IsActive,
		Nodes:       nodes,
	}
}

func (h *Handler) SubmitGraph(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "SubmitGraph")
	defer span.End()

	db := h.DB.WithContext(ctx)

	span.AddEvent("received graph submission request")

	var rdata types.GraphSubmission

	span.AddEvent("parsing request body")
	err := c.Bind(&rdata)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to parse request data")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("failed to parse request data"),
		)
	}

	span.AddEvent("validating request body")
	err = c.Validate(rdata)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to validate request data")
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusBadRequest, types.ValidationError(err))
	}

	nodes := make([]models.GraphNode, 0, len(rdata.Nodes))
	for _, node := range rdata.Nodes {
		serialized, err := json.Marshal(node.ConstantInput)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to serialize constant input")
			return response.InternalServerError
		}
		if !validator.ValidateConstantInputSize(len(serialized)) {
			span.SetStatus(codes.Ok, "constant input too large")
			return echo.NewHTTPError(
				http.StatusBadRequest,
				types.StringError("constant_input too large"),
			)
		}

		serialized, err = json.Marshal(node.Metadata)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to serialize metadata")
			return response.InternalServerError
		}
		if !validator.ValidateMetadataSize(len(serialized)) {
			span.SetStatus(codes.Ok, "metadata too large")
			return echo.NewHTTPError(
				http.StatusBadRequest,
				types.StringError("metadata too large"),
			)
		}

		nodes = append(nodes, models.GraphNode{
			BlockID:       node.BlockID,
			ConstantInput: datatypes.JSONMap(node.ConstantInput),
			Metadata:      datatypes.JSONMap(node.Metadata),
		})
	}

	graph := models.Graph{
		Name:        rdata.Name,
		Description: rdata.Description,
		Version:     1,
		IsActive:    true,
		Nodes:       nodes,
	}

	span.AddEvent("creating graph")
	result := db.Create(&graph)
	if result.Error != nil {
		span.RecordError(result.Error)
		span.SetStatus(codes.Error, "failed to create graph")
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("graph.id", graph.ID.String()))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "created graph")
	return c.JSON(http.StatusOK, graphResponse(&graph))
}

func (h *Handler) GetGraph(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "GetGraph")
	defer span.End()

	db := h.DB.WithContext(ctx)

	graph, ok := c.Get("graph").(*models.Graph)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("graph: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("graph.id", graph.ID.String()))

	span.AddEvent("loading graph nodes")
	err := db.Preload("Nodes").First(graph, graph.ID).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load graph nodes")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "fetched graph")
	return c.JSON(http.StatusOK, graphResponse(graph))
}

func (h *Handler) DeactivateGraph(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "DeactivateGraph")
	defer span.End()

	db := h.DB.WithContext(ctx)

	graph, ok := c.Get("graph").(*models.Graph)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("graph: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("graph.id", graph.ID.String()))

	span.AddEvent("deactivating graph")
	result := db.Model(graph).Update("is_active", false)
	if result.Error != nil {
		span.RecordError(result.Error)
		span.SetStatus(codes.Error, "failed to deactivate graph")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "deactivated graph")
	return c.NoContent(http.StatusNoContent)
}
