package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func sendBatchExecAll(ctx context.Context, batch *pgx.Batch, send func(context.Context, *pgx.Batch) pgx.BatchResults, operation string) error {
	_, err := sendBatchRowsAffected(ctx, batch, send, operation)
	return err
}

// sendBatchRowsAffected executes every queued command and returns the rows
// affected by each, in queue order.
func sendBatchRowsAffected(ctx context.Context, batch *pgx.Batch, send func(context.Context, *pgx.Batch) pgx.BatchResults, operation string) (affected []int64, err error) {
	if batch == nil || batch.Len() == 0 {
		return nil, nil
	}

	br := send(ctx, batch)
	defer func() {
		if closeErr := br.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%s batch close: %w", operation, closeErr)
		}
	}()

	affected = make([]int64, 0, batch.Len())
	for i := 0; i < batch.Len(); i++ {
		tag, execErr := br.Exec()
		if execErr != nil {
			return nil, fmt.Errorf("%s batch exec (command %d): %w", operation, i, execErr)
		}
		affected = append(affected, tag.RowsAffected())
	}
	return affected, nil
}
