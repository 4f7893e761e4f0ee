package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"agenda/internal/core"
)

const transactionColumns = `id, owner_id, kind, amount_cents, description, category, date, created_at`

// ListTransactions returns the owner's transactions inside the range,
// newest first.
func (r *Repository) ListTransactions(ctx context.Context, ownerID string, dr core.DateRange) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE owner_id = ? AND date >= ? AND date <= ?
		 ORDER BY date DESC, id DESC`,
		ownerID, dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListRecentTransactions returns the owner's latest transactions, newest
// first, capped at limit.
func (r *Repository) ListRecentTransactions(ctx context.Context, ownerID string, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE owner_id = ?
		 ORDER BY date DESC, id DESC
		 LIMIT ?`,
		ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *Repository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (owner_id, kind, amount_cents, description, category, date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.OwnerID, string(tx.Kind), tx.Amount.Cents, tx.Description, tx.Category, tx.Date.String())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", id, "kind", tx.Kind, "amount_cents", tx.Amount.Cents, "owner", tx.OwnerID)
	return r.GetTransaction(ctx, tx.OwnerID, id)
}

func (r *Repository) GetTransaction(ctx context.Context, ownerID string, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	return tx, err
}

func (r *Repository) DeleteTransaction(ctx context.Context, ownerID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete transaction rows: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTransactionForExport loads a transaction regardless of owner. Only the
// export worker uses this; it never serves a user request.
func (r *Repository) GetTransactionForExport(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	return tx, err
}

// ListPendingExport returns transactions that have not been exported yet and
// have no recorded export error, oldest first.
func (r *Repository) ListPendingExport(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE exported = 0 AND export_error = 0
		 ORDER BY id ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending export: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// MarkExported flags a transaction as successfully exported.
func (r *Repository) MarkExported(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET exported = 1, export_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as exported", "id", id)
	return nil
}

// MarkExportError flags a transaction as having failed its export.
func (r *Repository) MarkExportError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET export_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with export error", "id", id)
	return nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	transactions := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func scanTransaction(s rowScanner) (core.Transaction, error) {
	var (
		tx      core.Transaction
		kind    string
		date    string
		created time.Time
	)
	if err := s.Scan(&tx.ID, &tx.OwnerID, &kind, &tx.Amount.Cents,
		&tx.Description, &tx.Category, &date, &created); err != nil {
		return core.Transaction{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction date %q: %w", date, err)
	}
	tx.Kind = core.TransactionKind(kind)
	tx.Date = d
	tx.CreatedAt = created
	return tx, nil
}
