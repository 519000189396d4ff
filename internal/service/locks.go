package service

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type refMutex struct {
	sync.Mutex
	refs int
}

// keyedMutex hands out one mutex per pool and drops it when nobody holds or waits for it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[common.Address]*refMutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[common.Address]*refMutex)}
}

// Lock blocks until key is free and returns the unlock func.
func (k *keyedMutex) Lock(key common.Address) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()

		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
