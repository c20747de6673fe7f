// Package chart renders impact tables to PNG figures.
package chart

import (
	"fmt"
	"sync"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

// Builder defines the contract for creating a chart from its spec
type Builder func(spec domain.ChartSpec) (Chart, error)

// Factory is the registry for all available chart kinds
type Factory struct {
	builders map[domain.ChartKind]Builder
	mu       sync.RWMutex
}

var (
	instance *Factory
	once     sync.Once
)

// GetFactory returns the singleton instance
func GetFactory() *Factory {
	once.Do(func() {
		instance = NewFactory()
	})
	return instance
}

// NewFactory creates a new Factory instance with built-in charts registered
// This constructor is useful for testing where you need isolated factory instances
func NewFactory() *Factory {
	f := &Factory{
		builders: make(map[domain.ChartKind]Builder),
	}
	// Register built-in charts
	f.Register(domain.ChartBreakdown, buildBreakdown)
	f.Register(domain.ChartLifecycle, buildLifecycle)
	f.Register(domain.ChartComparison, buildComparison)
	f.Register(domain.ChartEndOfLife, buildEndOfLife)
	f.Register(domain.ChartCorrelation, buildCorrelation)
	return f
}

// Register adds or overrides a chart builder
func (f *Factory) Register(kind domain.ChartKind, builder Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[kind] = builder
}

// Create instantiates a chart based on its spec
func (f *Factory) Create(spec domain.ChartSpec) (Chart, error) {
	f.mu.RLock()
	builder, ok := f.builders[spec.Kind]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownChart, spec.Kind)
	}
	return builder(spec)
}

func buildBreakdown(spec domain.ChartSpec) (Chart, error) {
	if spec.ImpactCol == "" {
		spec.ImpactCol = domain.ColCarbonImpact
	}
	if spec.GroupCol == "" {
		spec.GroupCol = domain.ColMaterialType
	}
	if _, ok := (domain.Impacts{}).Get(spec.ImpactCol); !ok {
		return nil, fmt.Errorf("%w: breakdown impact column %q", domain.ErrInvalidArgument, spec.ImpactCol)
	}
	return &Breakdown{spec: spec}, nil
}

func buildLifecycle(spec domain.ChartSpec) (Chart, error) {
	if spec.ProductID == "" {
		return nil, fmt.Errorf("%w: lifecycle chart needs a product id", domain.ErrInvalidArgument)
	}
	return &Lifecycle{spec: spec}, nil
}

func buildComparison(spec domain.ChartSpec) (Chart, error) {
	if len(spec.ProductIDs) == 0 {
		return nil, fmt.Errorf("%w: comparison chart needs product ids", domain.ErrInvalidArgument)
	}
	return &Comparison{spec: spec}, nil
}

func buildEndOfLife(spec domain.ChartSpec) (Chart, error) {
	if spec.ProductID == "" {
		return nil, fmt.Errorf("%w: end-of-life chart needs a product id", domain.ErrInvalidArgument)
	}
	return &EndOfLife{spec: spec}, nil
}

func buildCorrelation(spec domain.ChartSpec) (Chart, error) {
	return &Correlation{spec: spec}, nil
}
