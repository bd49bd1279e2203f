package types

type (
	// Cumulative counters for one graph execution. Stored as a JSON object.
	ExecutionStats struct {
		WallTimeMS int64 `json:"wall_time_ms"`
		NodeCount  int   `json:"node_count"`
		ErrorCount int   `json:"error_count"`
	}

	NodeStats struct {
		WallTimeMS int64 `json:"wall_time_ms"`
		Retries    int   `json:"retries"`
	}

	NodeResultPatch struct {
		NodeExecutionID string         `json:"node_execution_id" validate:"required,uuid_rfc4122"`
		Status          string         `json:"status"            validate:"required,oneof=queued running completed failed canceled"`
		OutputData      map[string]any `json:"output_data"`
		Stats           *NodeStats     `json:"stats"`
	}

	ExecutionPatch struct {
		Status      *string           `json:"status"       validate:"omitempty,oneof=queued running completed failed canceled"`
		Stats       *ExecutionStats   `json:"stats"`
		NodeResults []NodeResultPatch `json:"node_results" validate:"dive"`
	}

	NodeExecutionResponse struct {
		ID         string         `json:"id"          validate:"required,uuid_rfc4122"`
		NodeID     string         `json:"node_id"     validate:"required,uuid_rfc4122"`
		Status     string         `json:"status"      validate:"required"`
		OutputData map[string]any `json:"output_data"`
		Stats      NodeStats      `json:"stats"`
	}

	ExecutionResponse struct {
		ID             string                  `json:"id"              validate:"required,uuid_rfc4122"`
		GraphID        string                  `json:"graph_id"        validate:"required,uuid_rfc4122"`
		Status         string                  `json:"status"          validate:"required"`
		Stats          ExecutionStats          `json:"stats"`
		NodeExecutions []NodeExecutionResponse `json:"node_executions"`
	}
)
