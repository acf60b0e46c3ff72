package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every PostgreSQL repository onto one pool.
// lockTimeout bounds how long a unit of work waits for row locks.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		RefreshTokenRepo: newPgxRefreshTokenRepository(dbPool),
		TxManager:        newPgxTxManager(dbPool, lockTimeout),
	}
}
