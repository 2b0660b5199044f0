package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"terracred/config"
	loanController "terracred/controllers/loan"
	"terracred/database"
	"terracred/hedera"
	"terracred/repository"
	"terracred/routers"
	"terracred/utils"

	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitLogger(config.AppConfig.LogLevel)
	defer utils.SyncLogger()

	database.ConnectDb()
	defer database.Close()

	app := routers.NewApp()

	if config.AppConfig.ChainEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		pool, closeChain, err := hedera.Connect(ctx, config.AppConfig, utils.Logger, false)
		cancel()
		if err != nil {
			utils.Logger.Error("lending pool unavailable, on-chain features disabled", zap.Error(err))
		} else {
			defer closeChain()
			loanController.UseChain(pool)

			db := database.Database.Db
			monitor := utils.NewLiquidationMonitor(
				repository.NewPropertyRepo(db, config.AppConfig.MasterRWATokenID),
				repository.NewTransactionRepo(db),
				pool,
				config.AppConfig.LiquidationThreshold,
			)
			scheduler, err := utils.InitializeLiquidationScheduler(monitor, config.AppConfig.LiquidationSchedule)
			if err != nil {
				log.Fatalf("Failed to start liquidation scheduler: %v", err)
			}
			defer scheduler.Stop()
		}
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		utils.Logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			utils.Logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		log.Fatal(err)
	}
}
