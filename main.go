package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "github.com/lipa-nganya/test-two-sub001/internal/config"
	router "github.com/lipa-nganya/test-two-sub001/internal/http"
	"github.com/lipa-nganya/test-two-sub001/internal/repositories"
	"github.com/lipa-nganya/test-two-sub001/internal/services"
	"github.com/lipa-nganya/test-two-sub001/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	// Router (Gin engine)
	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Background reconciler: the poller trigger of the settlement engine.
	pollCtx, stopPoller := context.WithCancel(context.Background())
	reconciler := worker.Reconciler{
		Orders: repositories.OrderRepository{},
		Settlement: services.SettlementService{
			Orders:       repositories.OrderRepository{},
			Transactions: repositories.TransactionRepository{},
			Wallets:      repositories.WalletRepository{},
			Settings: repositories.SettingsRepository{
				DefaultEnabled: env.DriverPayEnabled,
				DefaultAmount:  env.DriverPayAmount,
			},
		},
		Interval:  env.PollInterval,
		BatchSize: 50,
	}
	go reconciler.Run(pollCtx)

	go func() {
		log.Printf("server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly.")
}
