package repository

import (
	"context"

	"github.com/calisto-ai/calisto-site/pkg/domain/model"
)

// CatalogRepository 服务目录的只读数据源。实现自行负责超时。
type CatalogRepository interface {
	// ListServices 按目录顺序返回所有服务
	ListServices(ctx context.Context) ([]*model.CatalogService, error)

	// FindByID 根据 ID 查找服务，不存在时返回 constant.ErrNotFound
	FindByID(ctx context.Context, id string) (*model.CatalogService, error)
}
