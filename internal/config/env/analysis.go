package envconfig

import "github.com/caarlos0/env/v11"

type analysisEnv struct {
	ComparisonIDs []string `env:"LCA_COMPARISON_IDS" envDefault:"P002,P003" envSeparator:","`
	LifecycleID   string   `env:"LCA_LIFECYCLE_ID"   envDefault:"P001"`
	EndOfLifeID   string   `env:"LCA_EOL_ID"         envDefault:"P001"`
	Charts        []string `env:"LCA_CHARTS"         envSeparator:","`
	Normalize     bool     `env:"LCA_NORMALIZE"      envDefault:"false"`
}

type analysis struct {
	raw analysisEnv
}

func NewAnalysisConfig() (*analysis, error) {
	var raw analysisEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &analysis{raw: raw}, nil
}

func (cfg *analysis) ComparisonIDs() []string { return cfg.raw.ComparisonIDs }
func (cfg *analysis) LifecycleID() string     { return cfg.raw.LifecycleID }
func (cfg *analysis) EndOfLifeID() string     { return cfg.raw.EndOfLifeID }
func (cfg *analysis) Charts() []string        { return cfg.raw.Charts }
func (cfg *analysis) Normalize() bool         { return cfg.raw.Normalize }
