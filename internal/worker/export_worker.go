// Package worker reconciles finance transactions with the export spreadsheet.
// It is driven by AMQP sync messages, with a periodic catch-up pass for rows
// whose message was lost.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"agenda/internal/amqp"
	"agenda/internal/sheets"
	"agenda/internal/storage"
)

type ExportWorker struct {
	repo      *storage.Repository
	appender  sheets.StatementAppender
	remover   sheets.TransactionRemover
	batchSize int
}

func NewExportWorker(repo *storage.Repository, appender sheets.StatementAppender, remover sheets.TransactionRemover, batchSize int) *ExportWorker {
	return &ExportWorker{
		repo:      repo,
		appender:  appender,
		remover:   remover,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one sync message. Returning an error requeues
// the message.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	switch msg.Action {
	case amqp.ActionCreate:
		return w.exportTransaction(ctx, msg.ID)
	case amqp.ActionDelete:
		return w.removeTransaction(ctx, msg.ID)
	default:
		slog.WarnContext(ctx, "Unknown sync action, dropping message",
			"action", msg.Action,
			"transaction_id", msg.ID)
		return nil
	}
}

func (w *ExportWorker) exportTransaction(ctx context.Context, id int64) error {
	tx, err := w.repo.GetTransactionForExport(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted before the export ran; nothing left to do.
		slog.InfoContext(ctx, "Transaction gone before export", "transaction_id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	ref, err := w.appender.AppendTransaction(ctx, tx)
	if err != nil {
		return fmt.Errorf("append transaction %d: %w", id, err)
	}

	if err := w.repo.MarkExported(ctx, id); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}

	slog.InfoContext(ctx, "Transaction exported", "transaction_id", id, "sheet_ref", ref)
	return nil
}

func (w *ExportWorker) removeTransaction(ctx context.Context, id int64) error {
	if w.remover == nil {
		slog.WarnContext(ctx, "No remover configured, skipping sheet cleanup", "transaction_id", id)
		return nil
	}
	if err := w.remover.RemoveTransaction(ctx, id); err != nil {
		return fmt.Errorf("remove transaction %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Transaction removed from sheet", "transaction_id", id)
	return nil
}

// ProcessPending exports transactions that never got a sync message. Failures
// are recorded per row so one poisoned transaction cannot stall the batch.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.repo.ListPendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, tx := range pending {
		if err := w.exportTransaction(ctx, tx.ID); err != nil {
			slog.ErrorContext(ctx, "Pending export failed",
				"error", err,
				"transaction_id", tx.ID)
			if markErr := w.repo.MarkExportError(ctx, tx.ID); markErr != nil {
				slog.ErrorContext(ctx, "Failed to record export error",
					"error", markErr,
					"transaction_id", tx.ID)
			}
		}
	}
	return nil
}
