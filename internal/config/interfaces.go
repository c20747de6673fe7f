package config

type Paths interface {
	InputData() string
	ImpactFactors() string
	OutputDataDir() string
	OutputFiguresDir() string
}

type Analysis interface {
	ComparisonIDs() []string
	LifecycleID() string
	EndOfLifeID() string
	Charts() []string
	Normalize() bool
}

type Logger interface {
	Level() string
	AsJSON() bool
}

type Storage interface {
	Path() string
	Enabled() bool
}
