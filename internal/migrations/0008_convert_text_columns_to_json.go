package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(Up0008, Down0008)
}

type columnTarget struct {
	schema string
	table  string
	column string
}

// Columns written as serialized JSON text by pre-0008 application versions,
// in conversion order. goose runs the whole migration in one transaction, so
// either every column converts or none do.
var jsonColumnTargets = []columnTarget{
	{"platform", "graph_node", "constant_input"},
	{"platform", "graph_node", "metadata"},
	{"platform", "graph_execution", "stats"},
	{"platform", "node_execution", "stats"},
	{"platform", "node_execution", "output_data"},
	{"platform", "platform_user", "metadata"},
}

// convertColumnToJSON rewrites a text column as jsonb in place: stage into a
// temporary column, parse every row (NULL becomes the empty object), drop the
// original and rename the staged column over it. A non-NULL value that does
// not parse as JSON fails the cast and aborts the transaction. The typed
// '{}'::text default also makes a rerun against an already-converted column
// fail instead of silently re-casting jsonb.
func convertColumnToJSON(ctx context.Context, tx *sql.Tx, target columnTarget) error {
	table := pgx.Identifier{target.schema, target.table}.Sanitize()
	column := pgx.Identifier{target.column}.Sanitize()
	tmpColumn := pgx.Identifier{target.column + "_tmp"}.Sanitize()

	return execStatements(ctx, tx,
		statement{query: fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s JSONB;`, table, tmpColumn)},
		statement{query: fmt.Sprintf(
			`UPDATE %s SET %s = COALESCE(%s, '{}'::text)::jsonb;`,
			table, tmpColumn, column,
		)},
		statement{query: fmt.Sprintf(`ALTER TABLE %s DROP COLUMN %s;`, table, column)},
		statement{query: fmt.Sprintf(
			`ALTER TABLE %s RENAME COLUMN %s TO %s;`,
			table, tmpColumn, column,
		)},
	)
}

// convertColumnToText is the reverse staging for Down. Original NULLs are
// gone for good; they come back as the serialized empty object.
func convertColumnToText(ctx context.Context, tx *sql.Tx, target columnTarget) error {
	table := pgx.Identifier{target.schema, target.table}.Sanitize()
	column := pgx.Identifier{target.column}.Sanitize()
	tmpColumn := pgx.Identifier{target.column + "_tmp"}.Sanitize()

	return execStatements(ctx, tx,
		statement{query: fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s TEXT;`, table, tmpColumn)},
		statement{query: fmt.Sprintf(
			`UPDATE %s SET %s = %s::text;`,
			table, tmpColumn, column,
		)},
		statement{query: fmt.Sprintf(`ALTER TABLE %s DROP COLUMN %s;`, table, column)},
		statement{query: fmt.Sprintf(
			`ALTER TABLE %s RENAME COLUMN %s TO %s;`,
			table, tmpColumn, column,
		)},
	)
}

func Up0008(ctx context.Context, tx *sql.Tx) error {
	for _, target := range jsonColumnTargets {
		if err := convertColumnToJSON(ctx, tx, target); err != nil {
			return fmt.Errorf(
				"failed to convert %s.%s.%s to jsonb: %w",
				target.schema, target.table, target.column, err,
			)
		}
	}

	return nil
}

func Down0008(ctx context.Context, tx *sql.Tx) error {
	for _, target := range jsonColumnTargets {
		if err := convertColumnToText(ctx, tx, target); err != nil {
			return fmt.Errorf(
				"failed to convert %s.%s.%s back to text: %w",
				target.schema, target.table, target.column, err,
			)
		}
	}

	return nil
}
