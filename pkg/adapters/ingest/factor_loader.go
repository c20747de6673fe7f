package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/renjie/prism-lca/pkg/core/domain"
)

// Factor file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FactorLoader 实现 ports.FactorLoader 接口
// 读取 material -> stage -> {carbon_impact, energy_impact, water_impact} 的嵌套结构
type FactorLoader struct {
	format string // 为空时按扩展名判断
}

// NewFactorLoader 创建因子加载器；format 为空时根据文件扩展名选择解析方式
func NewFactorLoader(format string) *FactorLoader {
	return &FactorLoader{format: strings.ToLower(strings.TrimSpace(format))}
}

// LoadFactors 实现 ports.FactorLoader.LoadFactors
func (l *FactorLoader) LoadFactors(ctx context.Context, path string) (domain.RawFactors, error) {
	const op = "ingest.FactorLoader.LoadFactors"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := l.resolveFormat(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	raw, err := DecodeFactors(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, path, err)
	}
	return raw, nil
}

func (l *FactorLoader) resolveFormat(path string) (string, error) {
	format := l.format
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w for impact factors: %q", domain.ErrUnsupportedFormat, format)
	}
}

// DecodeFactors 按指定格式解析因子数据
func DecodeFactors(r io.Reader, format string) (domain.RawFactors, error) {
	raw := domain.RawFactors{}

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json factors: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml factors: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
	return raw, nil
}
