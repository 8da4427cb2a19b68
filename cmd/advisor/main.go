// Package main is the advisor CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wealthpilot/advisor/internal/advisor"
	"github.com/wealthpilot/advisor/internal/config"
	"github.com/wealthpilot/advisor/internal/embedding"
	"github.com/wealthpilot/advisor/internal/fallback"
	"github.com/wealthpilot/advisor/internal/guardrail"
	"github.com/wealthpilot/advisor/internal/knowledge"
	"github.com/wealthpilot/advisor/internal/llm"
	"github.com/wealthpilot/advisor/internal/market"
	"github.com/wealthpilot/advisor/internal/models"
	"github.com/wealthpilot/advisor/internal/server"
	"github.com/wealthpilot/advisor/internal/watcher"
	"github.com/wealthpilot/advisor/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/advisor/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory so that "advisor server" from the
// project dir uses the project's config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallbackPath := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallbackPath); statErr == nil {
				cfg, loadErr := config.Load(fallbackPath)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallbackPath, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "init":
		runInit()
	case "ask":
		runAsk()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("advisor version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// components holds the wired pipeline for direct (non-HTTP) commands and the
// server.
type components struct {
	Embedder     embedding.Embedder
	Store        knowledge.Store
	Guard        *guardrail.Filter
	Orchestrator *advisor.Orchestrator
}

// Close releases the embedding session and the vector store connection.
func (c *components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	var embedder embedding.Embedder
	switch cfg.Embedding.Provider {
	case "mock":
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	default:
		onnxEmbedder, err := embedding.NewONNXEmbedder(
			cfg.Embedding.ModelPath,
			cfg.Embedding.Dimensions,
			cfg.Embedding.MaxTokens,
			cfg.Embedding.CacheSize,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load embedding model: %w", err)
		}
		embedder = onnxEmbedder
	}

	store, err := knowledge.NewQdrantStore(
		cfg.Qdrant.Host,
		cfg.Qdrant.Port,
		cfg.Qdrant.Collection,
		cfg.Embedding.Dimensions,
		logger,
	)
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to connect to vector store: %w", err)
	}

	// No API key disables market enrichment; the assembler and the fallback
	// sentiment banner both tolerate a nil client.
	var marketClient *market.Client
	var marketData advisor.MarketData
	var sentiment fallback.SentimentSource
	if cfg.Market.APIKey != "" {
		marketClient = market.NewClient(cfg.Market.APIKey, cfg.Market.BaseURL, logger)
		marketData = marketClient
		sentiment = marketClient
	} else {
		logger.Info("market data disabled, no API key configured")
	}

	llmClient := llm.NewClient(
		cfg.Ollama.BaseURL,
		cfg.Ollama.Model,
		cfg.Ollama.Temperature,
		cfg.Ollama.MaxTokens,
		logger,
	)

	guard := guardrail.NewFilter(cfg.Guardrail.ExtraBlockedTopics)
	assembler := advisor.NewContextAssembler(
		embedder,
		store,
		marketData,
		cfg.Knowledge.TopK,
		float32(cfg.Knowledge.ScoreThreshold),
		cfg.Market.SymbolStopWords,
		logger,
	)
	orchestrator := advisor.NewOrchestrator(advisor.Options{
		Embedder:  embedder,
		Store:     store,
		LLM:       llmClient,
		Guard:     guard,
		Fallback:  fallback.NewEngine(sentiment, logger),
		Assembler: assembler,
		CorpusDir: cfg.Knowledge.CorpusDir,
		Logger:    logger,
	})

	return &components{
		Embedder:     embedder,
		Store:        store,
		Guard:        guard,
		Orchestrator: orchestrator,
	}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	initKB := fs.Bool("init", true, "initialize the knowledge base on startup")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer comps.Close()

	if *initKB {
		count, err := comps.Orchestrator.InitializeKnowledgeBase(context.Background(), false)
		if err != nil {
			logger.Warn("knowledge base init failed, retrieval degraded", zap.Error(err))
		} else {
			logger.Info("knowledge base ready", zap.Int("documents", count))
		}
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var corpusWatch *watcher.Watcher
	if cfg.Knowledge.CorpusDir != "" {
		corpusWatch = watcher.NewWatcher(cfg.Knowledge.CorpusDir, func() {
			count, err := comps.Orchestrator.InitializeKnowledgeBase(context.Background(), true)
			if err != nil {
				logger.Warn("corpus reload failed", zap.Error(err))
				return
			}
			logger.Info("corpus reloaded", zap.Int("documents", count))
		}, logger)
		if err := corpusWatch.Start(watchCtx); err != nil {
			logger.Warn("corpus watch disabled", zap.String("dir", cfg.Knowledge.CorpusDir), zap.Error(err))
			corpusWatch = nil
		}
	}

	srv := server.NewServer(comps.Orchestrator, comps.Guard, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if corpusWatch != nil {
		corpusWatch.Stop()
	}
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	recreate := fs.Bool("recreate", false, "drop and rebuild the collection")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer comps.Close()

	count, err := comps.Orchestrator.InitializeKnowledgeBase(context.Background(), *recreate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Knowledge base init failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Knowledge base initialized with %d documents\n", count)
}

// buildQuestion joins all positional args with spaces so multi-word questions
// work the same with or without shell quoting.
func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = direct wiring when server is not running)")
	riskTolerance := fs.String("risk", "", "risk tolerance: conservative, moderate, or aggressive")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: advisor ask [flags] <question>")
		os.Exit(1)
	}
	question := buildQuestion(fs.Args())
	if question == "" {
		fmt.Fprintln(os.Stderr, "Usage: advisor ask [flags] <question>")
		os.Exit(1)
	}

	var profile *models.UserProfile
	if *riskTolerance != "" {
		profile = &models.UserProfile{RiskTolerance: models.RiskTolerance(strings.ToLower(*riskTolerance))}
	}

	var result *models.AnswerResult
	if *serverURL != "" {
		res, err := askViaHTTP(*serverURL, question, profile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		result = res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		comps, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer comps.Close()
		result, err = comps.Orchestrator.Answer(context.Background(), question, profile, nil, true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Println(result.Text)
		if result.UsedModel {
			fmt.Println("\n(model-generated answer)")
		} else {
			fmt.Println("\n(rule-based answer)")
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func askViaHTTP(serverURL, question string, profile *models.UserProfile) (*models.AnswerResult, error) {
	body, err := json.Marshal(server.ChatRequest{Message: question, Profile: profile})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(strings.TrimRight(serverURL, "/")+"/api/v1/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var result models.AnswerResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = direct wiring)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var ready advisor.Readiness
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		ready = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		comps, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer comps.Close()
		ready = comps.Orchestrator.IsReady(context.Background())
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ready); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("llm_ready:                %t\n", ready.LLMReady)
		fmt.Printf("vector_store_ready:       %t\n", ready.VectorStoreReady)
		fmt.Printf("knowledge_base_documents: %d\n", ready.KnowledgeBaseDocuments)
		fmt.Printf("all_ready:                %t\n", ready.AllReady)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*advisor.Readiness, error) {
	resp, err := http.Get(strings.TrimRight(serverURL, "/") + "/api/v1/ready")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var ready advisor.Readiness
	if err := json.NewDecoder(resp.Body).Decode(&ready); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &ready, nil
}

func printUsage() {
	fmt.Println(`advisor - Personal finance advisory service

Usage:
  advisor server [flags]          Start the HTTP server
  advisor init [flags]            Initialize the knowledge base
  advisor ask [flags] <question>  Ask a one-shot question
  advisor status [flags]          Show component readiness
  advisor version                 Show version
  advisor help                    Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/advisor/config.yaml)
  --debug            Enable debug logging
  --init             Initialize the knowledge base on startup (default: true)

Init Flags:
  --config string    Config file path
  --recreate         Drop and rebuild the collection

Ask Flags:
  --config string    Config file path (for direct wiring mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct wiring.
  --risk string      Risk tolerance: conservative, moderate, or aggressive
  --output string    Output format: text or json (default: text)

Status Flags:
  --config string    Config file path (for direct wiring mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct wiring.
  --output string    Output format: text or json (default: text)

Examples:
  advisor server
  advisor init --recreate
  advisor ask "how should I start investing?"
  advisor ask --risk conservative --output json "suggest mutual funds"
  advisor status`)
}
