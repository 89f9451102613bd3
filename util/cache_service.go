// util/cache_service.go

package util

import (
	"context"
	"time"

	"github.com/mehmetNetAx/papirai-sub001/db"
	"github.com/mehmetNetAx/papirai-sub001/model"
)

type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetIntegration(ctx context.Context, integrationID string) (*model.Integration, error) {
	return db.GetCachedIntegration(ctx, integrationID)
}

func (c *CacheService) SetIntegration(ctx context.Context, integration model.Integration) error {
	return db.CacheIntegration(ctx, &integration)
}

func (c *CacheService) DeleteIntegration(ctx context.Context, integrationID string) error {
	return db.DeleteCachedIntegration(ctx, integrationID)
}

func (c *CacheService) GetContractDateStatus(ctx context.Context, contractID string) (*model.ContractDateStatus, error) {
	return db.GetCachedContractDateStatus(ctx, contractID)
}

func (c *CacheService) SetContractDateStatus(ctx context.Context, status model.ContractDateStatus, ttl time.Duration) error {
	return db.CacheContractDateStatus(ctx, &status, ttl)
}

func (c *CacheService) DeleteContractDateStatus(ctx context.Context, contractID string) error {
	return db.DeleteCachedContractDateStatus(ctx, contractID)
}
