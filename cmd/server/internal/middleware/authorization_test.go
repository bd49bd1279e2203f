package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentgraph/platform-api/cmd/server/internal/models"
	"github.com/agentgraph/platform-api/internal/logger"
)

func TestAuthorization(t *testing.T) {
	l := logger.Logger
	t.Run("NeedsOneHasNone", func(t *testing.T) {
		hasPerm := hasPermission(
			context.TODO(),
			&models.Permissions{Graphs: true},
			&models.Permissions{},
			l,
		)
		assert.False(t, hasPerm, "needs graphs but does not have")
	})

	t.Run("NeedsOneHasExtra", func(t *testing.T) {
		hasPerm := hasPermission(
			context.TODO(),
			&models.Permissions{Graphs: true},
			&models.Permissions{Graphs: true, Executions: true},
			l,
		)
		assert.True(t, hasPerm, "needs graphs and has it")
	})

	t.Run("NeedsManyHasMany", func(t *testing.T) {
		hasPerm := hasPermission(
			context.TODO(),
			&models.Permissions{Graphs: true, Executions: true},
			&models.Permissions{Graphs: true, Executions: true},
			l,
		)
		assert.True(t, hasPerm, "needs both and has both")
	})

	t.Run("NeedsOneHasOther", func(t *testing.T) {
		hasPerm := hasPermission(
			context.TODO(),
			&models.Permissions{Graphs: true},
			&models.Permissions{Executions: true},
			l,
		)
		assert.False(t, hasPerm, "needs graphs but does not have it")
	})

	t.Run("AdminDoesNotImplyOthers", func(t *testing.T) {
		hasPerm := hasPermission(
			context.TODO(),
			&models.Permissions{Graphs: true},
			&models.Permissions{Admin: true},
			l,
		)
		assert.False(t, hasPerm, "admin flag is not a wildcard")
	})
}
