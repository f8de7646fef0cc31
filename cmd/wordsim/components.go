package main

import (
	"fmt"
	"time"

	"wordsim/internal/config"
	"wordsim/internal/corpus"
	"wordsim/internal/domain"
	"wordsim/internal/embedding"
	"wordsim/internal/embedding/charhash"
	"wordsim/internal/embedding/openai"
	"wordsim/internal/logging"
	"wordsim/internal/service"
	"wordsim/internal/vectorstore"
	"wordsim/internal/vectorstore/qdrant"
)

// buildService assembles the embedding service from configuration.
func buildService(cfg *config.AppConfig, log logging.Logger) (*service.EmbeddingService, error) {
	generic, err := buildGeneric(cfg.Generic)
	if err != nil {
		return nil, err
	}
	stores, err := buildStores(cfg.VectorStore)
	if err != nil {
		return nil, err
	}
	return service.New(service.Options{
		Model:           cfg.ModelConfig(),
		Seed:            cfg.Embedding.Seed,
		DocumentsFolder: cfg.Documents.Folder,
		Source:          corpus.NewIngestor(log.WithPrefix("corpus")),
		Generic:         generic,
		NewStore:        stores,
		Logger:          log.WithPrefix("service"),
	}), nil
}

func buildGeneric(cfg config.GenericConfig) (domain.EmbeddingProvider, error) {
	var p domain.EmbeddingProvider
	switch cfg.Type {
	case "charhash", "":
		p = charhash.NewEmbedder()
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKeyEnv:  cfg.OpenAI.APIKeyEnv,
			Model:      cfg.OpenAI.Model,
			Timeout:    time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			MaxRetries: cfg.OpenAI.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		p = client
	default:
		return nil, fmt.Errorf("unknown generic embedder: %s", cfg.Type)
	}
	if cfg.CacheSize <= 0 {
		return p, nil
	}
	cached, err := embedding.NewCached(p, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

func buildStores(cfg config.VectorStoreConfig) (service.StoreFactory, error) {
	switch cfg.Type {
	case "memory", "":
		return service.MemoryStores, nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		q := *cfg.Qdrant
		return func(runID string) (vectorstore.Storage, error) {
			return qdrant.NewStorage(qdrant.Config{
				URL:        q.URL,
				APIKey:     q.APIKey,
				Collection: q.Collection + "_" + runID,
				Timeout:    time.Duration(q.TimeoutSecs) * time.Second,
			}), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}
