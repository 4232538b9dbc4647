package websocket

import (
	"sync"

	"github.com/google/uuid"
)

type lockKey struct {
	Code     string
	PuzzleID int
}

// LockTable единственный источник правды о том, кто держит энигму в комнате.
// Запись существует только пока lock удержан. Локи живут до конца процесса:
// ни таймер, ни дисконнект держателя их не снимают.
type LockTable struct {
	mu    sync.Mutex
	locks map[lockKey]uuid.UUID
}

func NewLockTable() *LockTable {
	return &LockTable{locks: make(map[lockKey]uuid.UUID)}
}

// Acquire атомарный check-and-set: свободно или уже у requester — захват,
// иначе отказ с текущим держателем.
func (t *LockTable) Acquire(code string, puzzleID int, requester uuid.UUID) (bool, uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := lockKey{Code: code, PuzzleID: puzzleID}
	holder, held := t.locks[key]
	if held && holder != requester {
		return false, holder
	}
	t.locks[key] = requester
	return true, requester
}

// Release снимает lock, если он свободен или принадлежит requester
func (t *LockTable) Release(code string, puzzleID int, requester uuid.UUID) (bool, uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := lockKey{Code: code, PuzzleID: puzzleID}
	holder, held := t.locks[key]
	if held && holder != requester {
		return false, holder
	}
	delete(t.locks, key)
	return true, requester
}

// Holder текущий держатель, если lock существует
func (t *LockTable) Holder(code string, puzzleID int) (uuid.UUID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	holder, held := t.locks[lockKey{Code: code, PuzzleID: puzzleID}]
	return holder, held
}
