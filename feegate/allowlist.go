package feegate

import (
	"sync"

	"github.com/mintvault/libmintvault-go/token"
)

// StaticAllowList is an in-memory AllowOracle. It is safe for concurrent
// use.
type StaticAllowList struct {
	mu      sync.RWMutex
	allowed map[token.Address]struct{}
}

// Compile-time interface check.
var _ AllowOracle = (*StaticAllowList)(nil)

// NewStaticAllowList creates an allow list seeded with the given operators.
func NewStaticAllowList(operators ...token.Address) *StaticAllowList {
	l := &StaticAllowList{allowed: make(map[token.Address]struct{}, len(operators))}
	for _, op := range operators {
		l.allowed[op] = struct{}{}
	}
	return l
}

// Allow adds an operator to the list.
func (l *StaticAllowList) Allow(operator token.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowed[operator] = struct{}{}
}

// Revoke removes an operator from the list.
func (l *StaticAllowList) Revoke(operator token.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.allowed, operator)
}

// IsOperatorAllowed reports membership. It never fails.
func (l *StaticAllowList) IsOperatorAllowed(operator token.Address) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.allowed[operator]
	return ok, nil
}
