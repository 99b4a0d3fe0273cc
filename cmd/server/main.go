package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"search-mcp/internal/adapter/gateway"
	"search-mcp/internal/adapter/imagecheck"
	"search-mcp/internal/adapter/provider"
	"search-mcp/internal/adapter/tool"
	"search-mcp/internal/infra/config"
	"search-mcp/internal/infra/logger"
	"search-mcp/internal/infra/tracer"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`search-mcp - MCP server for web and validated image search

USAGE:
    search-mcp [FLAGS]

FLAGS:
    -h, --help         Show this help message
    --config PATH      Specify config file path (default: ./config.yaml)

CONFIGURATION:
    Config file: ./config.yaml (optional; defaults apply without one)
    Environment: SEARCHMCP_* variables override config

    Required for live searches:
        SEARCHMCP_API_KEY      Google Custom Search API key
        SEARCHMCP_ENGINE_ID    Custom search engine ID (cx)

EXAMPLES:
    search-mcp                                   # stdio transport, defaults
    search-mcp --config /path/to/config.yaml     # custom config
    SEARCHMCP_TRANSPORT=http search-mcp          # HTTP transport on :8080`)
}

// configPath extracts --config from os.Args, defaulting to ./config.yaml.
func configPath() string {
	for i := 1; i < len(os.Args); i++ {
		switch {
		case os.Args[i] == "--config" && i+1 < len(os.Args):
			return os.Args[i+1]
		case strings.HasPrefix(os.Args[i], "--config="):
			return strings.TrimPrefix(os.Args[i], "--config=")
		}
	}
	return "config.yaml"
}

func run() error {
	// 1. Config
	cfg, err := config.LoadOrDefaults(configPath())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Logger & Tracer
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx := context.Background()
	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(ctx)

	// 3. Search provider, wrapped in a circuit breaker
	google := provider.NewGoogle(cfg.Provider, log)
	searchProvider := provider.NewBreakerProvider(google, cfg.Provider.Breaker, log)

	// 4. Image validation pipeline
	checker := imagecheck.NewChecker(cfg.Validation, log)
	batch := imagecheck.NewBatch(checker, cfg.Validation.Backstop, log)

	// 5. Tools
	registry := tool.NewRegistry(log)
	if err := registry.Register(tool.NewSearchTool(searchProvider, cfg.Tools.CacheTTL, log)); err != nil {
		return fmt.Errorf("register search: %w", err)
	}
	if err := registry.Register(tool.NewImageSearchTool(searchProvider, batch, log)); err != nil {
		return fmt.Errorf("register image_search: %w", err)
	}

	// 6. Gateway
	srv, err := gateway.NewServer(registry, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("gateway: %w", err)
	}

	// 7. Graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("search-mcp starting",
		"transport", cfg.Server.Transport,
		"provider", searchProvider.Name(),
		"tools", len(registry.List()),
		"validation_backstop", cfg.Validation.Backstop,
	)

	return srv.Run(ctx)
}
