package application

import (
	"database/sql"

	database "github.com/sebuszqo/FinanceDashboard/db"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/infrastructure"
)

// Store bundles the record store services behind one value, which is what the
// dashboard view and the HTTP layer consume.
type Store struct {
	*AccountService
	*TransactionService
	*GoalService
	Summaries *SummaryService
}

func NewStore(accounts domain.AccountRepository, transactions domain.TransactionRepository, goals domain.GoalRepository) *Store {
	return &Store{
		AccountService:     NewAccountService(accounts, transactions),
		TransactionService: NewTransactionService(transactions, accounts),
		GoalService:        NewGoalService(goals),
		Summaries:          NewSummaryService(transactions),
	}
}

// NewSQLStore wires the SQL repositories for the given connection.
func NewSQLStore(db *sql.DB, dialect database.Dialect) *Store {
	return NewStore(
		infrastructure.NewAccountRepository(db, dialect),
		infrastructure.NewTransactionRepository(db, dialect),
		infrastructure.NewGoalRepository(db, dialect),
	)
}
