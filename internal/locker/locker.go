package locker

import (
	"context"
	"errors"
)

// ErrLockTimeout - блокировку не удалось получить за отведенное время
var ErrLockTimeout = errors.New("lock acquisition timed out")

// Locker сериализует изменения одной заявки между запросами и репликами API.
type Locker interface {
	// Acquire ждет блокировку по ключу; release освобождает ее.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// CommissionKey - ключ блокировки заявки
func CommissionKey(commissionID string) string {
	return "commission_lock:" + commissionID
}
