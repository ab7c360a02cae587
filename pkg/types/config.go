package types

import "time"

// ComentionPredicate is the default predicate of co-mention triples.
const ComentionPredicate = "comention"

// UnknownFrame is the frame identifier used when a synset has no entry in
// the frame table.
const UnknownFrame = "unknown_frame"

// Collaborator backends.
const (
	BackendBuiltin   = "builtin"
	BackendContainer = "container"
	BackendHTTP      = "http"
	BackendBabelfy   = "babelfy"
)

// HTTPConfig holds shared HTTP settings used by collaborators reached over
// the network.
type HTTPConfig struct {
	// URL is the service endpoint.
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "kgextract/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ContainerConfig selects the image used by container-backed collaborators.
type ContainerConfig struct {
	// Image is the container image that reads text on stdin and writes the
	// collaborator's output on stdout.
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// Args are extra arguments passed to the image entrypoint.
	Args []string `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"`
}

// TokenizerConfig holds settings for the tokenizer.
type TokenizerConfig struct {
	// Backend is builtin or container (default builtin).
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`

	Container ContainerConfig `json:"container" yaml:"container" mapstructure:"container"`
}

// ParserConfig holds settings for the discourse parser (Boxer).
type ParserConfig struct {
	// Backend is http or container (default http).
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`

	HTTP      HTTPConfig      `json:"http" yaml:"http" mapstructure:"http"`
	Container ContainerConfig `json:"container" yaml:"container" mapstructure:"container"`
}

// LinkerConfig holds settings for the entity linker.
type LinkerConfig struct {
	// Backend is babelfy or http (default babelfy).
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`

	HTTP HTTPConfig `json:"http" yaml:"http" mapstructure:"http"`

	// Lang is the Babelfy input language (default "EN").
	Lang string `json:"lang" yaml:"lang" mapstructure:"lang"`

	// APIKey is the Babelfy key. Usually loaded from .secrets/babelfy-api-key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// ExtractionConfig holds settings for the corpus driver.
type ExtractionConfig struct {
	// FramesPath is the frame table file (YAML, JSON, or TSV).
	FramesPath string `json:"frames_path" yaml:"frames_path" mapstructure:"frames_path"`

	// Workers bounds how many documents are processed at once (default 1).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// CallTimeout bounds each collaborator call; a timeout skips the
	// document (default 60s).
	CallTimeout time.Duration `json:"call_timeout" yaml:"call_timeout" mapstructure:"call_timeout"`

	// ComentionPredicate is the predicate written for co-mention triples
	// (default "comention").
	ComentionPredicate string `json:"comention_predicate" yaml:"comention_predicate" mapstructure:"comention_predicate"`
}

// StoreConfig holds settings for the SQLite triple store.
type StoreConfig struct {
	// Path is the database file. Empty disables persistence for extract.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// MaxResults is the default query limit (default 100).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// PipelineConfig groups all settings of a kgextract run.
type PipelineConfig struct {
	Tokenizer  TokenizerConfig  `json:"tokenizer" yaml:"tokenizer" mapstructure:"tokenizer"`
	Parser     ParserConfig     `json:"parser" yaml:"parser" mapstructure:"parser"`
	Linker     LinkerConfig     `json:"linker" yaml:"linker" mapstructure:"linker"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
}

// WithDefaults returns a copy of cfg with zero values replaced by defaults.
func (cfg PipelineConfig) WithDefaults() PipelineConfig {
	if cfg.Tokenizer.Backend == "" {
		cfg.Tokenizer.Backend = BackendBuiltin
	}
	if cfg.Parser.Backend == "" {
		cfg.Parser.Backend = BackendHTTP
	}
	if cfg.Linker.Backend == "" {
		cfg.Linker.Backend = BackendBabelfy
	}
	if cfg.Linker.Lang == "" {
		cfg.Linker.Lang = "EN"
	}
	if cfg.Extraction.Workers <= 0 {
		cfg.Extraction.Workers = 1
	}
	if cfg.Extraction.CallTimeout <= 0 {
		cfg.Extraction.CallTimeout = 60 * time.Second
	}
	if cfg.Extraction.ComentionPredicate == "" {
		cfg.Extraction.ComentionPredicate = ComentionPredicate
	}
	if cfg.Store.MaxResults <= 0 {
		cfg.Store.MaxResults = 100
	}
	return cfg
}
