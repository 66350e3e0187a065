package store

// Config holds store initialization parameters.
type Config struct {
	Path string `json:"path,omitempty"` // FileStore root; empty means the working directory.
}

func DefaultConfig() Config {
	return Config{Path: "."}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
}

// NewStore creates a file store rooted at cfg.Path.
func NewStore(cfg *Config) (Store, error) {
	root := cfg.Path
	if root == "" {
		root = "."
	}
	return NewFileStore(root), nil
}
