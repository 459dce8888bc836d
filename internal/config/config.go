// Package config defines the core's configuration surface: a plain
// struct, immutable once constructed, matching spec's "configuration is
// immutable after construction" rule. Unlike the teacher's viper-backed
// loader, nothing here reads a config file or environment variable —
// the host embedding this core builds a Config programmatically and
// passes it to core.New.
package config

import "github.com/ctxcore/ctxcore/internal/retrieval"

// Config is the complete, construction-time configuration for a
// ctxcore instance.
type Config struct {
	Paths     PathsConfig
	Chunking  ChunkingConfig
	Retrieval retrieval.Config
	Metrics   MetricsConfig
}

// PathsConfig defines which files the indexer and rebuild walk consider
// in scope, and which extensions it will and won't touch.
type PathsConfig struct {
	RootDir         string
	IncludePatterns []string
	IgnorePatterns  []string
	AllowExt        []string
	BlockExt        []string
}

// ChunkingConfig bounds every structural chunker's output size.
type ChunkingConfig struct {
	MaxTokens      int
	OverlapPercent float64
}

// MetricsConfig sizes the in-memory usage metrics ring buffer.
type MetricsConfig struct {
	WindowSize int
}

// Default returns a Config with the documented defaults: the semantic,
// symbol and full_text retrieval providers enabled at equal weight with
// git_history disabled, MMR on, a one-chunk
// neighbor window, and the chunker/include-pattern defaults the teacher
// ships.
func Default(rootDir string) Config {
	return Config{
		Paths: PathsConfig{
			RootDir: rootDir,
			IncludePatterns: []string{
				"**/*.go", "**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx",
				"**/*.py", "**/*.rs", "**/*.c", "**/*.cpp", "**/*.cc",
				"**/*.h", "**/*.hpp", "**/*.php", "**/*.rb", "**/*.java",
				"**/*.cs", "**/*.kt", "**/*.kts", "**/*.md", "**/*.rst",
				"**/*.yaml", "**/*.yml", "**/*.json", "**/*.sql",
			},
			IgnorePatterns: []string{
				"**/node_modules/**", "**/vendor/**", "**/.git/**",
				"**/dist/**", "**/build/**", "**/target/**",
				"**/__pycache__/**",
			},
		},
		Chunking: ChunkingConfig{
			MaxTokens:      800,
			OverlapPercent: 0.15,
		},
		Retrieval: retrieval.DefaultConfig(),
		Metrics: MetricsConfig{
			WindowSize: 100,
		},
	}
}
