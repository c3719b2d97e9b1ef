package operations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/repos/operations"
)

var _ operations.Operations = (*operationsRepo)(nil)

type operationsRepo struct{ db *sql.DB }

func New(db *sql.DB) *operationsRepo {
	return &operationsRepo{db: db}
}

func (r *operationsRepo) Insert(ctx context.Context, op operations.Operation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO operations (player_id, operation_type, perform_time, status)
		VALUES ($1, $2, $3, $4)
	`, op.PlayerID, op.Kind, op.Time, op.Status)
	if err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}

	return nil
}

func (r *operationsRepo) List(ctx context.Context) ([]operations.Operation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player_id, operation_type, perform_time, status
		FROM operations
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	var log []operations.Operation

	for rows.Next() {
		var op operations.Operation

		err = rows.Scan(&op.ID, &op.PlayerID, &op.Kind, &op.Time, &op.Status)
		if err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}

		log = append(log, op)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate operations: %w", err)
	}

	return log, nil
}
