package objectkey

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator defines the interface for object key generation strategies
type Generator interface {
	// GenerateKey creates an object key for an environment file snapshot
	GenerateKey(metadata *KeyMetadata) string
}

// KeyMetadata contains information that influences key generation
type KeyMetadata struct {
	App      string // application name, e.g. "billing-api"
	Stage    string // deployment stage, e.g. "production", "staging"
	FileName string // dotenv filename, defaults to ".env"
}

const defaultFileName = ".env"

func (m *KeyMetadata) fileName() string {
	if m == nil || m.FileName == "" {
		return defaultFileName
	}
	return sanitizeFilename(m.FileName)
}

// FlatGenerator produces predictable current-state keys:
// envs/{app}/{stage}/{filename}. Uploads to the same app and stage
// overwrite each other, which is the point: one live snapshot per stage.
type FlatGenerator struct{}

func NewFlatGenerator() *FlatGenerator {
	return &FlatGenerator{}
}

func (g *FlatGenerator) GenerateKey(metadata *KeyMetadata) string {
	app, stage := "default", "default"
	if metadata != nil {
		if metadata.App != "" {
			app = sanitizePathComponent(metadata.App)
		}
		if metadata.Stage != "" {
			stage = sanitizePathComponent(metadata.Stage)
		}
	}
	return fmt.Sprintf("envs/%s/%s/%s", app, stage, metadata.fileName())
}

// HistoryGenerator produces unique sharded keys so every upload is kept:
// history/{app}/{stage}/ab/cd1234ef5678_{filename}. The shard comes from a
// random UUID, spreading snapshots across prefixes.
type HistoryGenerator struct {
	// ShardLength controls how many characters to use for sharding (default: 2)
	ShardLength int

	// newID is swapped in tests for deterministic output.
	newID func() uuid.UUID
}

func NewHistoryGenerator() *HistoryGenerator {
	return &HistoryGenerator{
		ShardLength: 2,
		newID:       uuid.New,
	}
}

func (g *HistoryGenerator) GenerateKey(metadata *KeyMetadata) string {
	newID := g.newID
	if newID == nil {
		newID = uuid.New
	}
	id := strings.ReplaceAll(newID().String(), "-", "")

	shardLength := g.ShardLength
	if shardLength < 1 || shardLength > len(id) {
		shardLength = 2
	}
	shardDir := id[:shardLength]
	remaining := id[shardLength:]

	app, stage := "default", "default"
	if metadata != nil {
		if metadata.App != "" {
			app = sanitizePathComponent(metadata.App)
		}
		if metadata.Stage != "" {
			stage = sanitizePathComponent(metadata.Stage)
		}
	}
	return fmt.Sprintf("history/%s/%s/%s/%s_%s", app, stage, shardDir, remaining, metadata.fileName())
}

// CustomFuncGenerator allows users to provide their own key generation function
type CustomFuncGenerator struct {
	GenerateFunc func(metadata *KeyMetadata) string
}

func NewCustomFuncGenerator(fn func(metadata *KeyMetadata) string) *CustomFuncGenerator {
	return &CustomFuncGenerator{
		GenerateFunc: fn,
	}
}

func (g *CustomFuncGenerator) GenerateKey(metadata *KeyMetadata) string {
	return g.GenerateFunc(metadata)
}

// Helper functions for path sanitization
func sanitizeFilename(filename string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return replacer.Replace(filename)
}

func sanitizePathComponent(component string) string {
	return strings.ToLower(sanitizeFilename(component))
}

// NewRecommendedGenerator returns the recommended generator for new installations
func NewRecommendedGenerator() Generator {
	return NewFlatGenerator()
}
