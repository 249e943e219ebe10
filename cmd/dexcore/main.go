// Command dexcore runs the simulated multi-asset trading and yield
// ledger: a synthetic order book, an automated strategy process,
// time-locked staking accrual and a web dashboard, all writing into one
// shared balance-and-earnings ledger.
//
// Usage:
//
//	dexcore --config config.yaml
//	dexcore setup        (interactive configuration wizard)
//	dexcore              (uses CLI arguments)
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nonagonchain/dexcore/config"
	"github.com/nonagonchain/dexcore/internal"
	"github.com/nonagonchain/dexcore/internal/logger"
	"github.com/nonagonchain/dexcore/internal/reporter"
	"github.com/nonagonchain/dexcore/internal/setup"
	"github.com/nonagonchain/dexcore/internal/web"
	"go.uber.org/zap"
)

const defaultConfigPath = "config.yaml"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(defaultConfigPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	conf, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	l := logger.New(conf.Log)
	defer l.Sync()

	engine, err := internal.NewEngine(conf, l)
	if err != nil {
		l.Fatal("failed to create engine", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := engine.Run(ctx); err != nil && err != context.Canceled {
			l.Error("engine stopped", zap.Error(err))
		}
	}()

	server := web.NewServer(conf.WebAddr, engine.Updates(), engine.ActivityStore())
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.Info("dashboard listening", zap.String("addr", conf.WebAddr))
		if err := server.Start(ctx); err != nil {
			l.Error("web server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")
	wg.Wait()

	snap := engine.GetSnapshot()
	reporter.Print(reporter.Summary{
		Pair:           snap.Pair,
		Balances:       snap.Balances,
		Earnings:       snap.Earnings,
		Staking:        snap.Staking,
		APY:            snap.APY,
		Bot:            snap.Bot,
		PortfolioValue: snap.PortfolioValue,
	})
}
