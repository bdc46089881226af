package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"homai-zigbee/internal/api"
	"homai-zigbee/internal/controller"
	"homai-zigbee/internal/mcpsurface"
	"homai-zigbee/internal/store"
	"homai-zigbee/internal/transport"
	"homai-zigbee/internal/zcl/attrschema"
	"homai-zigbee/internal/zcldb"
	"homai-zigbee/internal/zlog"
)

// defaultWireVersion is the APS wire protocol version (1-3) the controller
// frames requests and indications with; 3 is the newest layout internal/aps
// implements (indications carry previous_hop and RSSI).
const defaultWireVersion = 3

func main() {
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/homai-zigbee/gateway.db)")
	serialPort := flag.String("port", "", "Path to Zigbee serial port (overrides gateway_config)")
	mcpOnly := flag.Bool("mcp", false, "Serve the MCP tool surface on stdio instead of the REST API")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	zlog.Init(level)

	ctx := context.Background()

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()
	log.Info().Str("path", db.Path()).Msg("database opened")

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}

	needsBootstrap, err := db.NeedsBootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to check bootstrap status")
	}
	if needsBootstrap {
		log.Info().Msg("first run detected, bootstrapping database")
		if err := db.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap database")
		}
	}

	cfg, err := db.ActiveConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	log.Info().
		Str("profile", cfg.Profile.Name).
		Str("timezone", cfg.Timezone()).
		Str("api_address", cfg.Gateway.APIAddress()).
		Msg("configuration loaded")

	port := cfg.Gateway.SerialPort
	if *serialPort != "" {
		port = *serialPort
	}

	schema := zcldb.NewDatabase()
	if err := schema.LoadIndex(cfg.Gateway.SchemaIndex); err != nil {
		log.Warn().Err(err).Msg("failed to load schema index and default schema, continuing with an incomplete schema database")
	}

	var tp transport.Transport
	if port != "" {
		serialTp, err := transport.OpenSerial(port)
		if err != nil {
			log.Warn().Err(err).Str("port", port).Msg("serial transport unavailable, using loopback")
			tp = transport.NewLoopback()
		} else {
			tp = serialTp
		}
	} else {
		log.Warn().Msg("no serial port configured, using loopback")
		tp = transport.NewLoopback()
	}

	ctrl := controller.New(tp, schema, defaultWireVersion)
	defer ctrl.Close()

	if snapshots, err := db.LoadNodeCache(ctx, cfg.Profile.ID); err == nil {
		ctrl.Restore(snapshots)
		log.Info().Int("nodes", len(snapshots)).Msg("node cache restored")
	} else if err != store.ErrNodeCacheNotFound {
		log.Warn().Err(err).Msg("failed to load node cache")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutting down")
		if err := db.SaveNodeCache(ctx, cfg.Profile.ID, ctrl.Snapshot()); err != nil {
			log.Error().Err(err).Msg("failed to save node cache")
		}
		ctrl.Close()
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
		os.Exit(0)
	}()

	if *mcpOnly {
		mcpServer := mcpsurface.NewServer(ctrl)
		log.Info().Msg("starting MCP server on stdio")
		if err := mcpServer.ServeStdio(); err != nil {
			log.Fatal().Err(err).Msg("MCP server failed")
		}
		return
	}

	validator := attrschema.NewValidator()
	router := api.NewRouter(ctrl, validator)

	addr := cfg.Gateway.APIAddress()
	log.Info().Str("address", addr).Msg("starting API server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
