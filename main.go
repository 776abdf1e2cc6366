package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/stellarplus/docsearch/internal/app"
	"github.com/stellarplus/docsearch/internal/config"
	"github.com/stellarplus/docsearch/internal/logger"
	"github.com/stellarplus/docsearch/tools"
)

const (
	version     = "0.1.0"
	serverName  = "docsearch-mcp-server"
	description = "MCP server for searching the Scaffold Stellar Plus documentation"
)

// configPathEnv overrides the config file location
const configPathEnv = "DOCSEARCH_CONFIG"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("%s version %s\n", serverName, version)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	path := os.Getenv(configPathEnv)
	if path == "" {
		path = config.DefaultConfigFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	// stdout carries the MCP protocol
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	slog.Info("starting", "server", serverName, "version", version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("failed to close app", "error", err)
		}
	}()

	server := createMCPServer()
	tools.NewDocSearchTools(a).Register(server)

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Metrics.Enabled {
		g.Go(func() error {
			slog.Info("serving metrics", "addr", cfg.Metrics.Addr)
			return a.Metrics.Serve(ctx, cfg.Metrics.Addr)
		})
	}
	g.Go(func() error {
		slog.Info("server ready and waiting for connections")
		err := server.Run(ctx, &mcp.StdioTransport{})
		stop()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	return g.Wait()
}

func createMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version,
		},
		&mcp.ServerOptions{Instructions: description},
	)
	slog.Info("server initialized", "name", serverName, "version", version)
	return server
}
