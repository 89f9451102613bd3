// util/lock.go

package util

import (
	"context"
	"time"

	"github.com/mehmetNetAx/papirai-sub001/db"
)

// ResourceLock takes cross-process locks in redis. The in-process
// KeyedMutex keeps goroutines of one engine apart; this keeps engine
// replicas apart.
type ResourceLock struct{}

func NewResourceLock() *ResourceLock {
	return &ResourceLock{}
}

func (l *ResourceLock) Lock(ctx context.Context, resourceName string, ttl time.Duration) (bool, error) {
	return db.LockResource(ctx, resourceName, ttl)
}

func (l *ResourceLock) Unlock(ctx context.Context, resourceName string) error {
	return db.UnlockResource(ctx, resourceName)
}
