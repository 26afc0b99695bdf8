package db

import (
	"context"
	"fmt"
)

// RecordImportAudit writes the one durable summary record for a committed
// batch: which file, how many rows, how many succeeded and failed.
func (db *DB) RecordImportAudit(ctx context.Context, fileName string, totalRows, successCount, failCount int) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO import_audits (file_name, total_rows, success_count, fail_count)
		 VALUES ($1, $2, $3, $4)`,
		fileName, totalRows, successCount, failCount,
	)
	if err != nil {
		return fmt.Errorf("failed to record import audit: %w", err)
	}
	return nil
}
