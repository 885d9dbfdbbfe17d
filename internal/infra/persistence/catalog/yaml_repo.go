/*
 * @Description: 基于 YAML 文件的服务目录仓储
 * @Date: 2026-10-18 10:05:44
 */
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
	"github.com/calisto-ai/calisto-site/pkg/domain/repository"
)

//go:embed services.yaml
var defaultCatalog []byte

type catalogFile struct {
	Services []*model.CatalogService `yaml:"services"`
}

type yamlCatalogRepository struct {
	services []*model.CatalogService
}

// NewYAMLCatalogRepository 从 path 加载目录；path 为空时使用内置目录
func NewYAMLCatalogRepository(path string) (repository.CatalogRepository, error) {
	data := defaultCatalog
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = raw
	}
	return NewYAMLCatalogRepositoryFromBytes(data)
}

// NewYAMLCatalogRepositoryFromBytes 解析 YAML 内容
func NewYAMLCatalogRepositoryFromBytes(data []byte) (repository.CatalogRepository, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &yamlCatalogRepository{services: f.Services}, nil
}

func (r *yamlCatalogRepository) ListServices(ctx context.Context) ([]*model.CatalogService, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]*model.CatalogService, len(r.services))
	copy(out, r.services)
	return out, nil
}

func (r *yamlCatalogRepository) FindByID(ctx context.Context, id string) (*model.CatalogService, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, s := range r.services {
		if s != nil && strings.EqualFold(s.ID, id) {
			return s, nil
		}
	}
	return nil, constant.ErrNotFound
}
