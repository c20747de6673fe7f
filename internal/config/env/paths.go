package envconfig

import "github.com/caarlos0/env/v11"

type pathsEnv struct {
	InputData     string `env:"LCA_INPUT_DATA"         envDefault:"data/raw/sample_data.csv"`
	ImpactFactors string `env:"LCA_IMPACT_FACTORS"     envDefault:"data/raw/impact_factors.json"`
	OutputDataDir string `env:"LCA_OUTPUT_DATA_DIR"    envDefault:"outputs/data"`
	OutputFigsDir string `env:"LCA_OUTPUT_FIGURES_DIR" envDefault:"outputs/figures"`
}

type paths struct {
	raw pathsEnv
}

func NewPathsConfig() (*paths, error) {
	var raw pathsEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &paths{raw: raw}, nil
}

func (cfg *paths) InputData() string        { return cfg.raw.InputData }
func (cfg *paths) ImpactFactors() string    { return cfg.raw.ImpactFactors }
func (cfg *paths) OutputDataDir() string    { return cfg.raw.OutputDataDir }
func (cfg *paths) OutputFiguresDir() string { return cfg.raw.OutputFigsDir }
