package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordsim/internal/config"
	"wordsim/internal/logging"
	"wordsim/internal/vectorstore/qdrant"
)

func TestBuildGenericDefaultsToCachedCharHash(t *testing.T) {
	p, err := buildGeneric(config.Default().Generic)
	require.NoError(t, err)
	assert.Equal(t, "charhash", p.Name())
}

func TestBuildGenericErrors(t *testing.T) {
	_, err := buildGeneric(config.GenericConfig{Type: "word2vec"})
	assert.ErrorContains(t, err, "unknown generic embedder")

	_, err = buildGeneric(config.GenericConfig{Type: "openai"})
	assert.ErrorContains(t, err, "config missing")

	t.Setenv("WORDSIM_TEST_KEY", "")
	_, err = buildGeneric(config.GenericConfig{Type: "openai", OpenAI: &config.OpenAIEmbedderConfig{APIKeyEnv: "WORDSIM_TEST_KEY"}})
	assert.ErrorContains(t, err, "missing API key")
}

func TestBuildGenericOpenAI(t *testing.T) {
	t.Setenv("WORDSIM_TEST_KEY", "secret")
	p, err := buildGeneric(config.GenericConfig{
		Type:      "openai",
		CacheSize: 16,
		OpenAI:    &config.OpenAIEmbedderConfig{APIKeyEnv: "WORDSIM_TEST_KEY", Model: "nomic-embed-text"},
	})
	require.NoError(t, err)
	assert.Equal(t, "openai:nomic-embed-text", p.Name())
}

func TestBuildStoresQdrantUsesRunCollection(t *testing.T) {
	f, err := buildStores(config.VectorStoreConfig{
		Type:   "qdrant",
		Qdrant: &config.QdrantConfig{URL: "http://localhost:6333", Collection: "wordsim"},
	})
	require.NoError(t, err)
	st, err := f("run-1")
	require.NoError(t, err)
	q, ok := st.(*qdrant.Storage)
	require.True(t, ok)
	assert.Equal(t, "wordsim_run-1", q.Collection())

	_, err = buildStores(config.VectorStoreConfig{Type: "qdrant"})
	assert.Error(t, err)
	_, err = buildStores(config.VectorStoreConfig{Type: "faiss"})
	assert.Error(t, err)
}

func TestBuildServiceTrainsFromDocumentsFolder(t *testing.T) {
	cfg := config.Default()
	cfg.Documents.Folder = t.TempDir()
	cfg.Embedding.Epochs = 5
	svc, err := buildService(cfg, logging.Nop{})
	require.NoError(t, err)

	// The empty folder has no documents so the fallback pairs are used.
	require.NoError(t, svc.Train())
	assert.Contains(t, svc.Vocabulary(), "azure")
	assert.Equal(t, "charhash", svc.GenericName())
}
