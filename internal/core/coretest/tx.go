// AngelaMos | 2026
// tx.go

// Package coretest provides an in-memory stand-in for database
// transactions. Fake repositories register row locks and undo hooks on a Tx;
// the Transactor releases the locks when the callback returns and runs the
// undo hooks, newest first, when it fails.
package coretest

import (
	"context"
	"sync"

	"github.com/carterperez-dev/slideview/internal/core"
)

// Tx satisfies core.DBTX by embedding it. Calling any SQL method panics, so
// fakes must type-assert and use the hooks instead.
type Tx struct {
	core.DBTX

	mu     sync.Mutex
	locks  []sync.Locker
	undo   []func()
	closed bool
}

// Lock acquires l until the transaction ends, like SELECT ... FOR UPDATE.
func (t *Tx) Lock(l sync.Locker) {
	l.Lock()
	t.mu.Lock()
	t.locks = append(t.locks, l)
	t.mu.Unlock()
}

// OnRollback registers fn to run if the transaction fails.
func (t *Tx) OnRollback(fn func()) {
	t.mu.Lock()
	t.undo = append(t.undo, fn)
	t.mu.Unlock()
}

func (t *Tx) end(commit bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true

	if !commit {
		for i := len(t.undo) - 1; i >= 0; i-- {
			t.undo[i]()
		}
	}

	for i := len(t.locks) - 1; i >= 0; i-- {
		t.locks[i].Unlock()
	}
}

// Transactor implements core.Transactor over Tx. Commits counts committed
// transactions, Rollbacks failed ones.
type Transactor struct {
	mu        sync.Mutex
	Commits   int
	Rollbacks int
	// Fail, when set, is returned by WithTx without running fn.
	Fail error
}

func (tr *Transactor) WithTx(
	_ context.Context,
	fn func(tx core.DBTX) error,
) error {
	if tr.Fail != nil {
		return tr.Fail
	}

	tx := &Tx{}

	defer func() {
		if p := recover(); p != nil {
			tx.end(false)
			panic(p)
		}
	}()

	err := fn(tx)
	tx.end(err == nil)

	tr.mu.Lock()
	if err == nil {
		tr.Commits++
	} else {
		tr.Rollbacks++
	}
	tr.mu.Unlock()

	return err
}

// AsTx unwraps the fake transaction handed to a repository factory. Outside
// a transaction it returns nil, and fakes treat that as autocommit.
func AsTx(db core.DBTX) *Tx {
	tx, _ := db.(*Tx)
	return tx
}

var _ core.Transactor = (*Transactor)(nil)
