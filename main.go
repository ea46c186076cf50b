package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/floedata/floe/crdb"
	"github.com/floedata/floe/datastore"
	"github.com/floedata/floe/engine"
	"github.com/floedata/floe/gologger"
	"github.com/floedata/floe/http_server"
	"github.com/floedata/floe/metastore"
	"github.com/floedata/floe/migrations"
	"github.com/floedata/floe/utils"
)

var logger = gologger.NewLogger()

func main() {
	logger.Debug().Msg("starting floe api")

	ms, err := newMetaStore()
	if err != nil {
		logger.Error().Err(err).Msg("error creating metastore")
		os.Exit(1)
	}

	ss, err := newSnapshotStore()
	if err != nil {
		logger.Error().Err(err).Msg("error creating snapshot store")
		os.Exit(1)
	}

	eng, err := engine.New(ms, ss)
	if err != nil {
		logger.Error().Err(err).Msg("error creating engine")
		os.Exit(1)
	}

	httpServer := http_server.StartHTTPServer(eng)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Warn().Msg("received shutdown signal!")

	// For AWS ALB needing some time to de-register pod
	// Convert the time to seconds
	sleepTime := utils.GetEnvOrDefaultInt("SHUTDOWN_SLEEP_SEC", 0)
	logger.Info().Msg(fmt.Sprintf("sleeping for %ds before exiting", sleepTime))

	time.Sleep(time.Second * time.Duration(sleepTime))
	logger.Info().Msg(fmt.Sprintf("slept for %ds, exiting", sleepTime))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown HTTP server")
	} else {
		logger.Info().Msg("successfully shutdown HTTP server")
	}

	if err := eng.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown engine")
	}
}

// newMetaStore uses postgres when PG_DSN is set, otherwise falls back to the
// in-process metastore
func newMetaStore() (metastore.MetaStore, error) {
	if utils.PG_DSN == "" {
		return metastore.NewMemoryMetaStore(), nil
	}

	if err := crdb.ConnectToDB(); err != nil {
		return nil, fmt.Errorf("error connecting to CRDB: %w", err)
	}

	if err := migrations.CheckMigrations(utils.PG_DSN); err != nil {
		return nil, fmt.Errorf("error checking migrations: %w", err)
	}

	return metastore.NewPGMetaStore(crdb.PGPool)
}

// newSnapshotStore uses S3 when a bucket is configured, otherwise local disk
func newSnapshotStore() (datastore.SnapshotStore, error) {
	if utils.S3_BUCKET_NAME != "" {
		return datastore.NewS3SnapshotStore(utils.S3_BUCKET_NAME)
	}
	return datastore.NewDiskSnapshotStore(utils.SNAPSHOT_DIR)
}
