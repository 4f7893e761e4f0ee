// Package sheets defines the outbound ports of the statement export pipeline.
package sheets

import (
	"context"

	"agenda/internal/core"
)

type (
	// StatementAppender writes one transaction row to the export sheet and
	// returns a reference to the written range.
	StatementAppender interface {
		AppendTransaction(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// TransactionRemover removes a previously exported transaction row.
	TransactionRemover interface {
		RemoveTransaction(ctx context.Context, id int64) error
	}
)
