package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/embedding"
	"docqa/internal/ingest"
	"docqa/internal/vectorstore"
	"docqa/internal/vectorstore/memory"
	"docqa/internal/vectorstore/qdrant"
)

func usage() {
	fmt.Println("Usage: docqa-ingest [--config=config.yaml] --type text|json --corpus NAME [--url SOURCE_URL] FILE")
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()

	var (
		cfgPath   = flag.String("config", "", "Path to YAML config file (optional)")
		inputType = flag.String("type", "", "Input format: text or json")
		corpus    = flag.String("corpus", "", "Corpus name (required)")
		sourceURL = flag.String("url", "", "Source URL recorded for text input (defaults to the file path)")
		verbose   = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if *corpus == "" || flag.NArg() != 1 {
		usage()
	}
	if *inputType != "text" && *inputType != "json" {
		usage()
	}
	file := flag.Arg(0)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := buildLogger(*verbose)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	split, err := chunker.New(cfg.Chunker.Size, cfg.Chunker.Overlap)
	if err != nil {
		log.Fatalf("bad chunker config: %v", err)
	}
	embedder, err := embedding.NewOpenAI(embedding.OpenAIConfig{
		APIKeyEnv: cfg.Provider.APIKeyEnv,
		Model:     cfg.Provider.EmbeddingModel,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	store, err := newStore(cfg, *corpus)
	if err != nil {
		log.Fatalf("%v", err)
	}

	corpusDir := cfg.CorpusDir(*corpus)
	ingestor := ingest.New(split, embedder, store, logger)

	ctx := context.Background()
	start := time.Now()

	var summary string
	switch *inputType {
	case "text":
		summary, err = ingestor.IngestText(ctx, file, corpusDir, *sourceURL)
	case "json":
		summary, err = ingestor.IngestJSON(ctx, file, corpusDir)
	}
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	fmt.Printf("Ingested %s into corpus %q in %s\n", file, *corpus, time.Since(start).Round(time.Millisecond))
	fmt.Println()
	fmt.Println("Summary:")
	fmt.Println(summary)
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		return cfg, err
	}
	return config.Load(path)
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return c.Build()
}

// newStore builds an empty vector store for ingestion. Unlike the query
// binary it does not expect an existing index on disk.
func newStore(cfg *config.AppConfig, corpus string) (vectorstore.Storage, error) {
	switch cfg.Store.Type {
	case "memory", "":
		return memory.New(), nil
	case "qdrant":
		if cfg.Store.Qdrant == nil {
			return nil, fmt.Errorf("qdrant store selected but not configured")
		}
		collection := cfg.Store.Qdrant.Collection
		if collection == "" {
			collection = corpus
		}
		return qdrant.New(qdrant.Config{
			URL:        cfg.Store.Qdrant.URL,
			APIKey:     cfg.Store.Qdrant.APIKey,
			Collection: collection,
			Timeout:    time.Duration(cfg.Store.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Store.Type)
	}
}
