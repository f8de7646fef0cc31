// Package vectorstore indexes trained word embeddings for nearest-neighbor lookups.
package vectorstore

import "wordsim/internal/domain"

// Storage persists word vectors and supports similarity search.
type Storage = domain.WordStore
