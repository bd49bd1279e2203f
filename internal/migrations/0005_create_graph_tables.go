package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(Up0005, Down0005)
}

func Up0005(ctx context.Context, tx *sql.Tx) error {
	return execStatements(ctx, tx,
		statement{query: `
CREATE TABLE platform.graph (
    id UUID PRIMARY KEY DEFAULT uuidv7_sub_ms(),
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    version INTEGER NOT NULL DEFAULT 1,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp
);
`},
		statement{query: `
CREATE TABLE platform.graph_node (
    id UUID PRIMARY KEY DEFAULT uuidv7_sub_ms(),
    graph_id UUID NOT NULL REFERENCES platform.graph (id),
    block_id TEXT NOT NULL,
    constant_input TEXT,
    metadata TEXT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp
);
`},
		statement{query: `CREATE INDEX graph_node_graph_id_index ON platform.graph_node (graph_id);`},
	)
}

func Down0005(ctx context.Context, tx *sql.Tx) error {
	return execStatements(ctx, tx,
		statement{query: `DROP INDEX platform.graph_node_graph_id_index;`},
		statement{query: `DROP TABLE platform.graph_node;`},
		statement{query: `DROP TABLE platform.graph;`},
	)
}
