package handlers

import (
	"sync"

	intconfig "github.com/lipa-nganya/test-two-sub001/internal/config"
	"github.com/lipa-nganya/test-two-sub001/internal/repositories"
	"github.com/lipa-nganya/test-two-sub001/internal/services"
)

var (
	envMu sync.RWMutex
	env   intconfig.Env
)

// Configure stores the loaded environment for handler-level service wiring.
func Configure(e intconfig.Env) {
	envMu.Lock()
	defer envMu.Unlock()
	env = e
}

func currentEnv() intconfig.Env {
	envMu.RLock()
	defer envMu.RUnlock()
	return env
}

// Repositories use zero values here; they fall back to the shared DB.

func settingsRepo() repositories.SettingsRepository {
	e := currentEnv()
	return repositories.SettingsRepository{
		DefaultEnabled: e.DriverPayEnabled,
		DefaultAmount:  e.DriverPayAmount,
	}
}

func newSettlementService(reqID string) services.SettlementService {
	return services.SettlementService{
		Orders:       repositories.OrderRepository{},
		Transactions: repositories.TransactionRepository{},
		Wallets:      repositories.WalletRepository{},
		Settings:     settingsRepo(),
		RequestID:    reqID,
	}
}

func newOrderService(reqID string) services.OrderService {
	return services.OrderService{
		Orders:     repositories.OrderRepository{},
		Settlement: newSettlementService(reqID),
		RequestID:  reqID,
	}
}

func newPaymentService(reqID string) services.PaymentService {
	return services.PaymentService{
		Orders:       repositories.OrderRepository{},
		Transactions: repositories.TransactionRepository{},
		Settlement:   newSettlementService(reqID),
		RequestID:    reqID,
	}
}

func newWalletService(reqID string) services.WalletService {
	return services.WalletService{
		Orders:       repositories.OrderRepository{},
		Transactions: repositories.TransactionRepository{},
		Wallets:      repositories.WalletRepository{},
		RequestID:    reqID,
	}
}

func newBreakdownService() services.BreakdownService {
	return services.BreakdownService{Orders: repositories.OrderRepository{}}
}

func newStatementService(reqID string) services.StatementService {
	return services.StatementService{
		Orders:       repositories.OrderRepository{},
		Transactions: repositories.TransactionRepository{},
		RequestID:    reqID,
	}
}
