package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"github.com/tbruijn/covidwatch/internal/api"
	"github.com/tbruijn/covidwatch/internal/pkg/config"
	"github.com/tbruijn/covidwatch/internal/pkg/constants"
	"github.com/tbruijn/covidwatch/internal/pkg/logger"
	"github.com/tbruijn/covidwatch/internal/pkg/store"
	"github.com/tbruijn/covidwatch/internal/pkg/store/xpgx"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := config.Init(); err != nil {
		logger.Fatal(ctx, err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		logger.Fatal(ctx, err)
	}
	logger.Init(zapLogger)
	defer func() {
		_ = zapLogger.Sync()
	}()

	pool, err := xpgx.NewPool(ctx, viper.GetString(constants.ViperPostgresDSN))
	if err != nil {
		logger.Fatal(ctx, err)
	}

	st := store.NewStore(pool)
	if err = st.Bootstrap(ctx); err != nil {
		logger.Fatal(ctx, err)
	}

	svc, err := api.NewAPIService(st)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	go svc.Serve(viper.GetString(constants.ViperListenAddr))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = svc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "shutdown: %s", err.Error())
	}
}
