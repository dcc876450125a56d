// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	transactions map[key][]generic.Transaction
	idempotency  map[string]bool
}

type key struct {
	WorkerID    generic.WorkerID
	Entitlement string
}

func NewMemory() *Memory {
	return &Memory{
		transactions: make(map[key][]generic.Transaction),
		idempotency:  make(map[string]bool),
	}
}

// Append adds a single transaction. Append-only.
func (m *Memory) Append(_ context.Context, tx generic.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendLocked(tx)
}

// AppendBatch adds multiple transactions atomically.
func (m *Memory) AppendBatch(_ context.Context, txs []generic.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check all idempotency keys first (atomic check)
	for _, tx := range txs {
		if tx.IdempotencyKey != "" && m.idempotency[tx.IdempotencyKey] {
			return generic.ErrDuplicateIdempotencyKey
		}
	}

	for _, tx := range txs {
		if err := m.appendLocked(tx); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) appendLocked(tx generic.Transaction) error {
	if tx.IdempotencyKey != "" && m.idempotency[tx.IdempotencyKey] {
		return generic.ErrDuplicateIdempotencyKey
	}

	k := key{WorkerID: tx.WorkerID, Entitlement: tx.Entitlement.EntitlementID()}
	txs := m.transactions[k]

	// Binary search for insertion point keeps each slice sorted by EffectiveAt.
	i := sort.Search(len(txs), func(i int) bool {
		return txs[i].EffectiveAt.After(tx.EffectiveAt)
	})

	txs = append(txs, generic.Transaction{})
	copy(txs[i+1:], txs[i:])
	txs[i] = tx
	m.transactions[k] = txs

	if tx.IdempotencyKey != "" {
		m.idempotency[tx.IdempotencyKey] = true
	}
	return nil
}

// Load returns all transactions for worker+entitlement, sorted by EffectiveAt.
func (m *Memory) Load(_ context.Context, workerID generic.WorkerID, ent generic.Entitlement) ([]generic.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	k := key{WorkerID: workerID, Entitlement: ent.EntitlementID()}
	txs := m.transactions[k]
	out := make([]generic.Transaction, len(txs))
	copy(out, txs)
	return out, nil
}

// LoadRange returns transactions in [from, to].
func (m *Memory) LoadRange(ctx context.Context, workerID generic.WorkerID, ent generic.Entitlement, from, to generic.TimePoint) ([]generic.Transaction, error) {
	all, err := m.Load(ctx, workerID, ent)
	if err != nil {
		return nil, err
	}

	var out []generic.Transaction
	for _, tx := range all {
		if tx.EffectiveAt.AfterOrEqual(from) && tx.EffectiveAt.BeforeOrEqual(to) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// LoadByWorker returns all transactions for a worker across entitlements.
func (m *Memory) LoadByWorker(_ context.Context, workerID generic.WorkerID, from, to generic.TimePoint) ([]generic.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []generic.Transaction
	for k, txs := range m.transactions {
		if k.WorkerID != workerID {
			continue
		}
		for _, tx := range txs {
			if tx.EffectiveAt.AfterOrEqual(from) && tx.EffectiveAt.BeforeOrEqual(to) {
				out = append(out, tx)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].EffectiveAt.Before(out[j].EffectiveAt)
	})
	return out, nil
}

// Exists checks whether an idempotency key has been recorded.
func (m *Memory) Exists(_ context.Context, idempotencyKey string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.idempotency[idempotencyKey], nil
}
