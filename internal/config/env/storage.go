package envconfig

import "github.com/caarlos0/env/v11"

type storageEnv struct {
	Path    string `env:"LCA_STORAGE_PATH"    envDefault:"outputs/lca_runs.db"`
	Enabled bool   `env:"LCA_STORAGE_ENABLED" envDefault:"true"`
}

type storage struct {
	raw storageEnv
}

func NewStorageConfig() (*storage, error) {
	var raw storageEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &storage{raw: raw}, nil
}

func (cfg *storage) Path() string  { return cfg.raw.Path }
func (cfg *storage) Enabled() bool { return cfg.raw.Enabled }
