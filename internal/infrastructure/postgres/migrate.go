package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed migrations.sql
var schemaSQL string

// Migrate aplica el esquema embebido. Las sentencias son idempotentes (IF NOT EXISTS),
// por lo que puede ejecutarse en cada arranque.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
