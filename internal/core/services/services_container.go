package services

import (
	"github.com/SscSPs/bank_backoffice_api/internal/core/ports/events"
	portsrepo "github.com/SscSPs/bank_backoffice_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_backoffice_api/internal/core/ports/services"
	"github.com/SscSPs/bank_backoffice_api/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(
		repos.AccountRepo,
		repos.TxManager,
		WithAccountEventPublisher(publisher),
	)

	container.Transaction = NewTransactionService(
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.TxManager,
		WithVaultAccount(cfg.VaultAccountID),
		WithTransactionEventPublisher(publisher),
	)

	container.User = NewUserService(repos.UserRepo, repos.RefreshTokenRepo, container.Account)
	container.Auth = NewAuthService(cfg, repos.UserRepo, repos.RefreshTokenRepo)

	return container
}
