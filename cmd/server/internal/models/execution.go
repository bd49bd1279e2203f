package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/agentgraph/platform-api/internal/types"
)

type (
	GraphExecution struct {
		Model
		GraphID        uuid.UUID
		UserID         datatypes.Null[uuid.UUID]
		Status         types.ExecutionStatus
		Stats          types.ExecutionStats `gorm:"type:jsonb;serializer:json"`
		StartedAt      datatypes.Null[time.Time]
		EndedAt        datatypes.Null[time.Time]
		NodeExecutions []NodeExecution `gorm:"foreignKey:GraphExecutionID"`
	}

	NodeExecution struct {
		Model
		GraphExecutionID uuid.UUID
		GraphNodeID      uuid.UUID
		Status           types.ExecutionStatus
		OutputData       datatypes.JSONMap `gorm:"type:jsonb"`
		Stats            types.NodeStats   `gorm:"type:jsonb;serializer:json"`
	}
)

func (GraphExecution) TableName() string {
	return "platform.graph_execution"
}

func (e GraphExecution) GetID() uuid.UUID {
	return e.ID
}

func (NodeExecution) TableName() string {
	return "platform.node_execution"
}

func (n NodeExecution) GetID() uuid.UUID {
	return n.ID
}
