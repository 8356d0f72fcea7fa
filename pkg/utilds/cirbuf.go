package utilds

import "sync"

// CirBuf is a thread-safe circular buffer. It grows by doubling until it
// reaches maxSize, after which the oldest element is overwritten on write.
type CirBuf[T any] struct {
	lock    sync.Mutex
	maxSize int
	buf     []T
	head    int
	tail    int
}

// MakeCirBuf creates an empty circular buffer holding at most maxSize elements.
func MakeCirBuf[T any](maxSize int) *CirBuf[T] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &CirBuf[T]{maxSize: maxSize}
}

// Write appends an element. When the buffer is at capacity the oldest element
// is replaced; a pointer to the evicted element is returned, otherwise nil.
func (cb *CirBuf[T]) Write(element T) *T {
	cb.lock.Lock()
	defer cb.lock.Unlock()

	if cb.head == cb.tail {
		// full (also covers the empty nil-slice case, size 0)
		curSize := cb.sizeNoLock()
		if curSize == cb.maxSize {
			evicted := cb.buf[cb.head]
			cb.buf[cb.head] = element
			cb.head = (cb.head + 1) % len(cb.buf)
			cb.tail = cb.head
			return &evicted
		}
		newBuf := make([]T, max(min(curSize*2, cb.maxSize), 1))
		copy(newBuf, cb.buf[cb.head:])
		copy(newBuf[len(cb.buf)-cb.head:], cb.buf[:cb.head])
		cb.buf = newBuf
		cb.head = 0
		cb.tail = curSize
	}
	cb.buf[cb.tail] = element
	cb.tail = (cb.tail + 1) % len(cb.buf)
	return nil
}

// GetAll returns the buffer contents in insertion order (oldest first).
func (cb *CirBuf[T]) GetAll() []T {
	cb.lock.Lock()
	defer cb.lock.Unlock()

	size := cb.sizeNoLock()
	rtn := make([]T, 0, size)
	for i := 0; i < size; i++ {
		rtn = append(rtn, cb.buf[(cb.head+i)%len(cb.buf)])
	}
	return rtn
}

// GetLast returns the most recently written element, or the zero value and
// false when the buffer is empty.
func (cb *CirBuf[T]) GetLast() (T, bool) {
	cb.lock.Lock()
	defer cb.lock.Unlock()

	if cb.sizeNoLock() == 0 {
		var zero T
		return zero, false
	}
	idx := (cb.tail - 1 + len(cb.buf)) % len(cb.buf)
	return cb.buf[idx], true
}

func (cb *CirBuf[T]) sizeNoLock() int {
	if cb.buf == nil {
		return 0
	}
	if cb.head == cb.tail {
		return len(cb.buf)
	}
	if cb.head < cb.tail {
		return cb.tail - cb.head
	}
	return len(cb.buf) - cb.head + cb.tail
}

// Size returns the current number of elements.
func (cb *CirBuf[T]) Size() int {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	return cb.sizeNoLock()
}

// IsEmpty returns true if the buffer holds no elements.
func (cb *CirBuf[T]) IsEmpty() bool {
	return cb.Size() == 0
}

// IsFull returns true if the buffer is at capacity.
func (cb *CirBuf[T]) IsFull() bool {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	return cb.sizeNoLock() == cb.maxSize
}
