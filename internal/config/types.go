package config

// Config holds the settings shared by the MCP server and both CLIs.
type Config struct {
	// DataDir holds analytics, history, lock files and exports. Empty means
	// the resolved default (see ResolveDataDir).
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	Corpus  CorpusConfig  `yaml:"corpus" koanf:"corpus"`
	Storage StorageConfig `yaml:"storage" koanf:"storage"`
	Logging LoggingConfig `yaml:"logging" koanf:"logging"`
	Metrics MetricsConfig `yaml:"metrics" koanf:"metrics"`
	Indexer IndexerConfig `yaml:"indexer" koanf:"indexer"`
}

// CorpusConfig locates the search index artifact. An empty Path selects the
// bundled corpus.
type CorpusConfig struct {
	Path       string `yaml:"path" koanf:"path"`
	BleveIndex string `yaml:"bleve_index" koanf:"bleve_index"`
}

// StorageDriver names a key-value backend.
type StorageDriver string

const (
	DriverFile     StorageDriver = "file"
	DriverMemory   StorageDriver = "memory"
	DriverSQLite   StorageDriver = "sqlite"
	DriverPostgres StorageDriver = "postgres"
	DriverRedis    StorageDriver = "redis"
)

// StorageConfig selects and configures the analytics persistence backend.
type StorageConfig struct {
	Driver StorageDriver `yaml:"driver" koanf:"driver"`
	// Dir is used by the file backend, and by sqlite when DSN is empty.
	Dir           string `yaml:"dir" koanf:"dir"`
	DSN           string `yaml:"dsn" koanf:"dsn"`
	RedisAddr     string `yaml:"redis_addr" koanf:"redis_addr"`
	RedisPassword string `yaml:"redis_password" koanf:"redis_password"`
	RedisDB       int    `yaml:"redis_db" koanf:"redis_db"`
	KeyPrefix     string `yaml:"key_prefix" koanf:"key_prefix"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Addr    string `yaml:"addr" koanf:"addr"`
}

// IndexerConfig drives the build-time extractor. Empty glob lists select the
// extractor defaults.
type IndexerConfig struct {
	BaseHref string   `yaml:"base_href" koanf:"base_href"`
	Include  []string `yaml:"include" koanf:"include"`
	Exclude  []string `yaml:"exclude" koanf:"exclude"`
	// Popularity maps a document href to a fixed popularity score.
	Popularity map[string]int `yaml:"popularity,omitempty" koanf:"popularity"`
}
