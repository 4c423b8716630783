package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-arcade/orgman/internal/engine/api"
	"github.com/go-arcade/orgman/internal/engine/conf"
	"github.com/go-arcade/orgman/internal/engine/logic"
	"github.com/go-arcade/orgman/internal/engine/request"
	"github.com/go-arcade/orgman/internal/engine/storage"
	"github.com/go-arcade/orgman/pkg/ctx"
	"github.com/go-arcade/orgman/pkg/database"
	"github.com/go-arcade/orgman/pkg/log"
	"github.com/go-arcade/orgman/pkg/safe"
)

var confDir string

func init() {
	flag.StringVar(&confDir, "conf", "conf.d", "conf directory, e.g. -conf ./conf.d")
}

func main() {
	flag.Parse()

	engineConf := conf.NewEngineConfig(confDir)

	log.MustInit(&engineConf.Log)
	logger := log.GetLogger()

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoIns, err := database.NewMongoDB(rootCtx, engineConf.Mongo)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}

	appCtx := ctx.NewContext(rootCtx, mongoIns, logger)

	if err := storage.Bootstrap(appCtx); err != nil {
		log.Fatalf("failed to bootstrap storage: %v", err)
	}

	logicRequests := make(chan request.LogicRequest, engineConf.Dispatch.LogicRequestsBoundary)
	storageRequests := make(chan request.StorageRequest, engineConf.Dispatch.StorageRequestsBoundary)

	storagePool := storage.NewDispatchPool(
		engineConf.Dispatch.StorageRequestDispatchInstances, storageRequests, appCtx)
	storagePool.Run(rootCtx)

	logicPool := logic.NewDispatchPool(
		engineConf.Dispatch.LogicRequestDispatchInstances, logicRequests, storageRequests)
	logicPool.Run(rootCtx)

	server := api.NewServer(engineConf.Amqp, logicRequests)
	safe.Go(func() {
		if err := server.Run(rootCtx); err != nil {
			log.Errorf("api server stopped: %v", err)
			cancel()
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infof("received signal %s, shutting down", sig)
	case <-rootCtx.Done():
	}

	cancel()

	if err := server.Close(); err != nil {
		log.Errorf("failed to close api server: %v", err)
	}

	// New submissions fail synchronously once the channels are closed.
	close(logicRequests)
	logicPool.Wait()
	close(storageRequests)
	storagePool.Wait()

	if err := mongoIns.Close(context.Background()); err != nil {
		log.Errorf("failed to close MongoDB connection: %v", err)
	}

	log.Info("shutdown complete")
}
