package service

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	id "wellbuddie/pkg/domain"
	dErrors "wellbuddie/pkg/domain-errors"
)

// StoreTx provides a transactional boundary for consent read-modify-write.
// Implementations wrap a database transaction or, in memory, a sharded lock.
// fn receives a context that the store (and the audit store) must use.
type StoreTx interface {
	RunInTx(ctx context.Context, subjectID id.SubjectID, fn func(ctx context.Context, store Store) error) error
}

// numShards spreads subjects over independent locks so unrelated subjects do
// not contend.
const numShards = 128

const defaultTxTimeout = 5 * time.Second

type shardedTx struct {
	shards  [numShards]sync.Mutex
	store   Store
	timeout time.Duration
}

// NewShardedTx serializes writes per subject for in-memory and Redis stores.
func NewShardedTx(store Store) StoreTx {
	return &shardedTx{store: store, timeout: defaultTxTimeout}
}

func (t *shardedTx) RunInTx(ctx context.Context, subjectID id.SubjectID, fn func(ctx context.Context, store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	shard := shardFor(subjectID)
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx, t.store)
}

func shardFor(subjectID id.SubjectID) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(subjectID[:])
	return h.Sum32() % numShards
}
