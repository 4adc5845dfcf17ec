package ofximport

import (
	"context"
	"io"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	"github.com/sebuszqo/FinanceDashboard/internal/logger"
)

type BulkCreator interface {
	CreateTransactionsBulk(ctx context.Context, accountID, ownerID string, transactions []*domain.Transaction) ([]string, error)
}

type Result struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	IDs      []string `json:"ids"`
}

// Importer stores the transactions of an OFX statement in one account. The whole
// statement is rejected when any row fails validation.
type Importer struct {
	store BulkCreator
}

func NewImporter(store BulkCreator) *Importer {
	return &Importer{store: store}
}

func (i *Importer) Import(ctx context.Context, accountID, ownerID string, reader io.Reader) (*Result, error) {
	statement, err := Parse(reader)
	if err != nil {
		return nil, err
	}

	result := &Result{Skipped: statement.Skipped, IDs: []string{}}
	if len(statement.Transactions) == 0 {
		return result, nil
	}

	ids, err := i.store.CreateTransactionsBulk(ctx, accountID, ownerID, statement.Transactions)
	if err != nil {
		return nil, err
	}
	result.Imported = len(ids)
	result.IDs = ids

	log := logger.FromContext(ctx)
	log.Info().
		Str("owner_id", ownerID).
		Str("account_id", accountID).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("Imported OFX statement")
	return result, nil
}
