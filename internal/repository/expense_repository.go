package repository

import (
	"context"

	"receipt-analyzer/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var expenseColumns = []string{"id", "text", "category", "advice", "file_id", "created_at"}

type ExpenseRepository struct {
	db     DBTX
	table  string
	logger *zap.Logger
}

func NewExpenseRepository(db DBTX, table string, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		table:  table,
		logger: logger,
	}
}

func (r *ExpenseRepository) Create(ctx context.Context, rec *models.ExpenseRecord) error {
	query := squirrel.Insert(r.table).
		Columns(expenseColumns...).
		Values(rec.ID, rec.Text, rec.Category, rec.Advice, rec.FileID, rec.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		r.logger.Error("Failed to insert expense", zap.String("id", rec.ID.String()), zap.Error(err))
		return err
	}

	return nil
}

func (r *ExpenseRepository) List(ctx context.Context, limit, offset int) ([]*models.ExpenseRecord, error) {
	query := squirrel.Select(expenseColumns...).
		From(r.table).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.ExpenseRecord
	for rows.Next() {
		var rec models.ExpenseRecord
		if err := rows.Scan(
			&rec.ID, &rec.Text, &rec.Category, &rec.Advice, &rec.FileID, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}
