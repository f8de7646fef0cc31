// Package corpus turns a folder of text documents into weighted word pairs.
package corpus

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"wordsim/internal/domain"
	"wordsim/internal/logging"
)

// Extension is the file extension of eligible corpus documents.
const Extension = ".txt"

// Ingestor reads corpus directories. It implements domain.PairSource.
type Ingestor struct {
	log logging.Logger
}

// NewIngestor creates an Ingestor logging through log.
func NewIngestor(log logging.Logger) *Ingestor {
	if log == nil {
		log = logging.Nop{}
	}
	return &Ingestor{log: log}
}

// Ingest reads every eligible document in dir, in file-name order, and
// returns the raw pairs of all of them. Errors wrap domain.ErrCorpus.
func (in *Ingestor) Ingest(dir string) ([]domain.TrainingPair, error) {
	files, err := documentFiles(dir)
	if err != nil {
		return nil, err
	}
	in.log.Info("processing documents", logging.Fields{"folder": dir, "files": len(files)})

	var all []domain.TrainingPair
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, errors.Wrapf(domain.ErrCorpus, "read %s: %v", f, err)
		}
		pairs := TextPairs(string(data))
		in.log.Debug("processed document", logging.Fields{"file": filepath.Base(f), "pairs": len(pairs)})
		all = append(all, pairs...)
	}
	return all, nil
}

// Pairs ingests dir and deduplicates the result.
func (in *Ingestor) Pairs(dir string) ([]domain.TrainingPair, error) {
	raw, err := in.Ingest(dir)
	if err != nil {
		return nil, err
	}
	pairs := Dedup(raw)
	in.log.Info("generated unique training pairs", logging.Fields{"raw": len(raw), "unique": len(pairs)})
	return pairs, nil
}

func documentFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrCorpus, "invalid documents folder %s: %v", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(domain.ErrCorpus, "invalid documents folder %s: not a directory", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrCorpus, "list %s: %v", dir, err)
	}
	// os.ReadDir returns entries sorted by name.
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), Extension) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, errors.Wrapf(domain.ErrCorpus, "no %s files found in %s", Extension, dir)
	}
	return files, nil
}
