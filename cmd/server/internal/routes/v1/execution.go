package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	srverr "github.com/agentgraph/platform-api/cmd/server/internal/error"
	"github.com/agentgraph/platform-api/cmd/server/internal/models"
	"github.com/agentgraph/platform-api/cmd/server/internal/response"
	"github.com/agentgraph/platform-api/internal/types"
	"github.com/agentgraph/platform-api/internal/validator"
)

func executionResponse(execution *models.GraphExecution) types.ExecutionResponse {
	nodeExecutions := make([]types.NodeExecutionResponse, 0, len(execution.NodeExecutions))
	for _, nodeExecution := range execution.NodeExecutions {
		nodeExecutions = append(nodeExecutions, types.NodeExecutionResponse{
			ID:         nodeExecution.ID.String(),
			NodeID:     nodeExecution.GraphNodeID.String(),
			Status:     string(nodeExecution.Status),
			OutputData: map[string]any(nodeExecution.OutputData),
			Stats:      nodeExecution.Stats,
		})
	}

	return types.ExecutionResponse{
		ID:             execution.ID.String(),
		GraphID:        execution.GraphID.String(),
		Status:         string(execution.Status),
		Stats:          execution.Stats,
		NodeExecutions: nodeExecutions,
	}
}

func (h *Handler) SubmitExecution(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "SubmitExecution")
	defer span.End()

	db := h.DB.WithContext(ctx)

	graph, ok := c.Get("graph").(*models.Graph)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("graph: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	requestTime, ok := c.Get("time").(time.Time)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("time: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.String("graph.id", graph.ID.String()),
		attribute.Int64("request.timestamp_ms", requestTime.UnixMilli()),
	)

	if !graph.IsActive {
		span.SetStatus(codes.Ok, "graph is inactive")
		return echo.NewHTTPError(http.StatusConflict, types.StringError("graph is inactive"))
	}

	span.AddEvent("loading graph nodes")
	err := db.Preload("Nodes").First(graph, graph.ID).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load graph nodes")
		return response.InternalServerError
	}

	nodeExecutions := make([]models.NodeExecution, 0, len(graph.Nodes))
	for _, node := range graph.Nodes {
		nodeExecutions = append(nodeExecutions, models.NodeExecution{
			GraphNodeID: node.ID,
			Status:      types.ExecutionStatusQueued,
		})
	}

	execution := models.GraphExecution{
		GraphID:        graph.ID,
		Status:         types.ExecutionStatusQueued,
		StartedAt:      models.NewNullFromData(requestTime),
		NodeExecutions: nodeExecutions,
	}

	span.AddEvent("creating execution")
	result := db.Create(&execution)
	if result.Error != nil {
		span.RecordError(result.Error)
		span.SetStatus(codes.Error, "failed to create execution")
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("execution.id", execution.ID.String()))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "created execution")
	return c.JSON(http.StatusOK, executionResponse(&execution))
}

func (h *Handler) GetExecution(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "GetExecution")
	defer span.End()

	db := h.DB.WithContext(ctx)

	graph, ok := c.Get("graph").(*models.Graph)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("graph: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	execution, ok := c.Get("execution").(*models.GraphExecution)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("execution: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.String("graph.id", graph.ID.String()),
		attribute.String("execution.id", execution.ID.String()),
	)

	if execution.GraphID != graph.ID {
		span.SetStatus(codes.Ok, "execution does not belong to graph")
		return response.NotFoundError
	}

	span.AddEvent("loading node executions")
	err := db.Preload("NodeExecutions").First(execution, execution.ID).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load node executions")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "fetched execution")
	return c.JSON(http.StatusOK, executionResponse(execution))
}

func (h *Handler) PatchExecution(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "PatchExecution")
	defer span.End()

	db := h.DB.WithContext(ctx)

	graph, ok := c.Get("graph").(*models.Graph)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("graph: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	execution, ok := c.Get("execution").(*models.GraphExecution)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("execution: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	requestTime, ok := c.Get("time").(time.Time)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("time: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.String("graph.id", graph.ID.String()),
		attribute.String("execution.id", execution.ID.String()),
	)

	if execution.GraphID != graph.ID {
		span.SetStatus(codes.Ok, "execution does not belong to graph")
		return response.NotFoundError
	}

	if execution.Status.Terminal() {
		span.SetStatus(codes.Ok, "execution already finished")
		return echo.NewHTTPError(
			http.StatusConflict,
			types.StringError("execution already finished"),
		)
	}

	var rdata types.ExecutionPatch

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

	for _, nodeResult := range rdata.NodeResults {
		serialized, err := json.Marshal(nodeResult.OutputData)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to serialize output data")
			return response.InternalServerError
		}
		if !validator.ValidateOutputDataSize(len(serialized)) {
			span.SetStatus(codes.Ok, "output data too large")
			return echo.NewHTTPError(
				http.StatusBadRequest,
				types.StringError("output_data too large"),
			)
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if rdata.Status != nil {
			execution.Status = types.ExecutionStatus(*rdata.Status)
			if execution.Status.Terminal() {
				execution.EndedAt = models.NewNullFromData(requestTime)
			}
		}
		if rdata.Stats != nil {
			execution.Stats = *rdata.Stats
		}

		if result := tx.Save(execution); result.Error != nil {
			return result.Error
		}

		for _, nodeResult := range rdata.NodeResults {
			nodeExecutionID, err := uuid.Parse(nodeResult.NodeExecutionID)
			if err != nil {
				return err
			}

			nodeExecution, err := models.ByID[models.NodeExecution](ctx, tx, nodeExecutionID)
			if err != nil {
				return err
			}
			if nodeExecution.GraphExecutionID != execution.ID {
				return gorm.ErrRecordNotFound
			}

			nodeExecution.Status = types.ExecutionStatus(nodeResult.Status)
			if nodeResult.OutputData != nil {
				nodeExecution.OutputData = datatypes.JSONMap(nodeResult.OutputData)
			}
			if nodeResult.Stats != nil {
				nodeExecution.Stats = *nodeResult.Stats
			}

			if result := tx.Save(nodeExecution); result.Error != nil {
				return result.Error
			}
		}

		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to patch execution")

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFoundError
		}

		return response.InternalServerError
	}

	span.AddEvent("loading node executions")
	err = db.Preload("NodeExecutions").First(execution, execution.ID).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load node executions")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "patched execution")
	return c.JSON(http.StatusOK, executionResponse(execution))
}
