package utilds

import (
	"sync"
	"testing"
)

func TestCirBufBasicOperations(t *testing.T) {
	cb := MakeCirBuf[int](5)

	if !cb.IsEmpty() {
		t.Error("New buffer should be empty")
	}
	if cb.IsFull() {
		t.Error("New buffer should not be full")
	}
	if cb.Size() != 0 {
		t.Errorf("Expected size 0, got %d", cb.Size())
	}

	cb.Write(10)
	cb.Write(20)
	cb.Write(30)

	if cb.IsEmpty() {
		t.Error("Buffer should not be empty after writing")
	}
	if cb.Size() != 3 {
		t.Errorf("Expected size 3, got %d", cb.Size())
	}

	all := cb.GetAll()
	expected := []int{10, 20, 30}
	if len(all) != len(expected) {
		t.Fatalf("Expected %d elements, got %d", len(expected), len(all))
	}
	for i, val := range expected {
		if all[i] != val {
			t.Errorf("Expected all[%d] = %d, got %d", i, val, all[i])
		}
	}

	last, ok := cb.GetLast()
	if !ok || last != 30 {
		t.Errorf("Expected last element 30, got %d (ok: %v)", last, ok)
	}
}

func TestCirBufGetLastEmpty(t *testing.T) {
	cb := MakeCirBuf[string](3)
	_, ok := cb.GetLast()
	if ok {
		t.Error("GetLast on empty buffer should return false")
	}
}

func TestCirBufOverwrite(t *testing.T) {
	cb := MakeCirBuf[string](3)

	for _, s := range []string{"A", "B", "C"} {
		if kicked := cb.Write(s); kicked != nil {
			t.Errorf("Expected nil kicked element, got %v", *kicked)
		}
	}

	// buffer is full; subsequent writes evict oldest
	kicked := cb.Write("D")
	if kicked == nil || *kicked != "A" {
		t.Errorf("Expected kicked element A, got %v", kicked)
	}
	kicked = cb.Write("E")
	if kicked == nil || *kicked != "B" {
		t.Errorf("Expected kicked element B, got %v", kicked)
	}

	if !cb.IsFull() {
		t.Error("Buffer should be full")
	}

	all := cb.GetAll()
	expected := []string{"C", "D", "E"}
	if len(all) != len(expected) {
		t.Fatalf("Expected %d elements, got %d", len(expected), len(all))
	}
	for i, val := range expected {
		if all[i] != val {
			t.Errorf("Expected all[%d] = %s, got %s", i, val, all[i])
		}
	}
}

func TestCirBufGrowth(t *testing.T) {
	cb := MakeCirBuf[int](100)
	for i := 0; i < 100; i++ {
		if kicked := cb.Write(i); kicked != nil {
			t.Fatalf("Unexpected eviction at element %d", i)
		}
	}
	if !cb.IsFull() {
		t.Error("Buffer should be full after maxSize writes")
	}
	all := cb.GetAll()
	for i, val := range all {
		if val != i {
			t.Errorf("Expected all[%d] = %d, got %d", i, i, val)
		}
	}
}

func TestCirBufConcurrency(t *testing.T) {
	cb := MakeCirBuf[int](100)

	numGoroutines := 10
	numOps := 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				cb.Write(id*numOps + j)
			}
		}(i)
	}
	wg.Wait()

	if !cb.IsFull() {
		t.Errorf("Buffer should be full, size %d", cb.Size())
	}
	if got := len(cb.GetAll()); got != 100 {
		t.Errorf("Expected 100 elements, got %d", got)
	}
}
