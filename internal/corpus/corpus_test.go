package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordsim/internal/domain"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		want     []string
	}{
		{"stop words and punctuation", "Hello, world! This is a TEST.", []string{"hello", "world", "this", "test"}},
		{"short and numeric tokens dropped", "Go 2024 has 42 new k8s features", []string{"has", "new", "k8s", "features"}},
		{"hyphen kept", "state-of-the-art embeddings", []string{"state-of-the-art", "embeddings"}},
		{"whitespace collapsed", "  cloud\t\tstorage \n bucket ", []string{"cloud", "storage", "bucket"}},
		{"non ascii letters stripped", "café naïve", []string{"caf"}},
		{"empty", "  ...  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.sentence))
		})
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("One. Two!! Three?! Four")
	assert.Equal(t, []string{"One", " Two", " Three", " Four"}, got)
}

func TestSentencePairsWindow(t *testing.T) {
	tokens := []string{"t0", "t1", "t2", "t3", "t4", "t5"}
	pairs := SentencePairs(tokens)

	// 5+4+3+2+1 pairs, none further than Window apart.
	require.Len(t, pairs, 15)
	seen := map[string]float64{}
	for _, p := range pairs {
		seen[p.WordA+"-"+p.WordB] = p.Similarity
	}
	assert.InDelta(t, 1.0, seen["t0-t1"], 1e-12)
	assert.InDelta(t, 0.5, seen["t0-t2"], 1e-12)
	assert.InDelta(t, 0.2, seen["t0-t5"], 1e-12)
	assert.InDelta(t, 1.0/3, seen["t2-t5"], 1e-12)
	_, reversed := seen["t1-t0"]
	assert.False(t, reversed)

	long := SentencePairs([]string{"a0", "a1", "a2", "a3", "a4", "a5", "a6"})
	for _, p := range long {
		assert.False(t, p.WordA == "a0" && p.WordB == "a6", "distance 6 must not produce a pair")
	}
}

func TestSentencePairsTooShort(t *testing.T) {
	assert.Empty(t, SentencePairs(nil))
	assert.Empty(t, SentencePairs([]string{"alone"}))
}

func TestTextPairsPerSentence(t *testing.T) {
	pairs := TextPairs("Hello, world! This is a TEST.")
	assert.Equal(t, []domain.TrainingPair{
		{WordA: "hello", WordB: "world", Similarity: 1},
		{WordA: "this", WordB: "test", Similarity: 1},
	}, pairs)
}

func TestDedupKeepsMaximum(t *testing.T) {
	for _, order := range [][]domain.TrainingPair{
		{{WordA: "x", WordB: "y", Similarity: 0.3}, {WordA: "y", WordB: "x", Similarity: 0.6}},
		{{WordA: "y", WordB: "x", Similarity: 0.6}, {WordA: "x", WordB: "y", Similarity: 0.3}},
	} {
		out := Dedup(order)
		require.Len(t, out, 1)
		assert.Equal(t, 0.6, out[0].Similarity)
	}
}

func TestDedupFirstSeenOrder(t *testing.T) {
	out := Dedup([]domain.TrainingPair{
		{WordA: "b", WordB: "c", Similarity: 0.2},
		{WordA: "a", WordB: "b", Similarity: 1},
		{WordA: "c", WordB: "b", Similarity: 0.9},
	})
	assert.Equal(t, []domain.TrainingPair{
		{WordA: "c", WordB: "b", Similarity: 0.9},
		{WordA: "a", WordB: "b", Similarity: 1},
	}, out)
}

func TestPairKeyOrderIndependent(t *testing.T) {
	assert.Equal(t, PairKey("aws", "s3"), PairKey("s3", "aws"))
	assert.Equal(t, "aws|s3", PairKey("s3", "aws"))
}

func TestIngestorPairs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("Cloud storage bucket."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.TXT"), []byte("Storage cloud service! Bucket policy."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored markdown file"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	pairs, err := NewIngestor(nil).Pairs(dir)
	require.NoError(t, err)

	// a.TXT is read first: storage-cloud (1), storage-service (0.5), cloud-service (1), bucket-policy (1);
	// b.txt adds cloud-storage (1, duplicate key), cloud-bucket (0.5), storage-bucket (1).
	assert.Equal(t, []domain.TrainingPair{
		{WordA: "storage", WordB: "cloud", Similarity: 1},
		{WordA: "storage", WordB: "service", Similarity: 0.5},
		{WordA: "cloud", WordB: "service", Similarity: 1},
		{WordA: "bucket", WordB: "policy", Similarity: 1},
		{WordA: "cloud", WordB: "bucket", Similarity: 0.5},
		{WordA: "storage", WordB: "bucket", Similarity: 1},
	}, pairs)
}

func TestIngestorErrors(t *testing.T) {
	in := NewIngestor(nil)

	_, err := in.Ingest(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, domain.ErrCorpus))

	file := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(file, []byte("text"), 0o644))
	_, err = in.Ingest(file)
	assert.True(t, errors.Is(err, domain.ErrCorpus))

	empty := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(empty, "readme.md"), []byte("x"), 0o644))
	_, err = in.Ingest(empty)
	assert.True(t, errors.Is(err, domain.ErrCorpus))
	assert.Contains(t, err.Error(), "no .txt files found")
}

func TestFallbackPairs(t *testing.T) {
	pairs := FallbackPairs()
	assert.Len(t, pairs, 12)
	assert.Equal(t, Dedup(pairs), pairs)
	for _, p := range pairs {
		assert.GreaterOrEqual(t, p.Similarity, 0.0)
		assert.LessOrEqual(t, p.Similarity, 1.0)
	}
}
