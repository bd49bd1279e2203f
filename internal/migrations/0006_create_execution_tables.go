package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(Up0006, Down0006)
}

func Up0006(ctx context.Context, tx *sql.Tx) error {
	return execStatements(ctx, tx,
		statement{query: `
CREATE TABLE platform.graph_execution (
    id UUID PRIMARY KEY DEFAULT uuidv7_sub_ms(),
    graph_id UUID NOT NULL REFERENCES platform.graph (id),
    user_id UUID REFERENCES platform.platform_user (id),
    status TEXT NOT NULL DEFAULT 'queued',
    stats TEXT,
    started_at TIMESTAMP WITH TIME ZONE,
    ended_at TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp
);
`},
		statement{query: `
CREATE TABLE platform.node_execution (
    id UUID PRIMARY KEY DEFAULT uuidv7_sub_ms(),
    graph_execution_id UUID NOT NULL REFERENCES platform.graph_execution (id),
    graph_node_id UUID NOT NULL REFERENCES platform.graph_node (id),
    status TEXT NOT NULL DEFAULT 'queued',
    output_data TEXT,
    stats TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp
);
`},
		statement{
			query: `CREATE INDEX graph_execution_graph_id_index ON platform.graph_execution (graph_id);`,
		},
		statement{
			query: `CREATE INDEX node_execution_graph_execution_id_index ON platform.node_execution (graph_execution_id);`,
		},
	)
}

func Down0006(ctx context.Context, tx *sql.Tx) error {
	return execStatements(ctx, tx,
		statement{query: `DROP INDEX platform.node_execution_graph_execution_id_index;`},
		statement{query: `DROP INDEX platform.graph_execution_graph_id_index;`},
		statement{query: `DROP TABLE platform.node_execution;`},
		statement{query: `DROP TABLE platform.graph_execution;`},
	)
}
