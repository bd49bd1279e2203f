package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type (
	Graph struct {
		Name        string
		Description string
		Model
		Nodes    []GraphNode `gorm:"foreignKey:GraphID"`
		Version  int
		IsActive bool
	}

	GraphNode struct {
		BlockID string
		Model
		GraphID       uuid.UUID
		ConstantInput datatypes.JSONMap `gorm:"type:jsonb"`
		Metadata      datatypes.JSONMap `gorm:"type:jsonb"`
	}
)

func (Graph) TableName() string {
	return "platform.graph"
}

func (g Graph) GetID() uuid.UUID {
	return g.ID
}

func (GraphNode) TableName() string {
	return "platform.graph_node"
}

func (n GraphNode) GetID() uuid.UUID {
	return n.ID
}
