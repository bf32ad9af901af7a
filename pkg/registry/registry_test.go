package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/weft-dev/weft/pkg/errors"
)

// TestItem is a simple type for testing
type TestItem struct {
	ID   int
	Name string
}

func TestNew(t *testing.T) {
	reg := New[TestItem]()

	if reg == nil {
		t.Fatal("New() returned nil")
	}

	if reg.Count() != 0 {
		t.Errorf("New registry should be empty, got count %d", reg.Count())
	}
}

func TestRegister(t *testing.T) {
	reg := New[TestItem]()

	t.Run("register valid item", func(t *testing.T) {
		err := reg.Register("item1", TestItem{ID: 1, Name: "test"})

		if err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}

		if reg.Count() != 1 {
			t.Errorf("Count() = %d, want 1", reg.Count())
		}
	})

	t.Run("register with empty name", func(t *testing.T) {
		err := reg.Register("", TestItem{ID: 2})

		if !errors.IsErrorCode(err, errors.ErrInvalidInput) {
			t.Errorf("Register() with empty name should return ErrInvalidInput, got %v", err)
		}
	})

	t.Run("register duplicate", func(t *testing.T) {
		err := reg.Register("item1", TestItem{ID: 3})

		if !errors.IsErrorCode(err, errors.ErrAlreadyExists) {
			t.Errorf("Register() duplicate should return ErrAlreadyExists, got %v", err)
		}
	})
}

func TestPut(t *testing.T) {
	reg := New[TestItem]()

	t.Run("put new item", func(t *testing.T) {
		replaced := reg.Put("item1", TestItem{ID: 1, Name: "first"})

		if replaced {
			t.Error("Put() on a fresh name should report replaced = false")
		}
	})

	t.Run("put replaces existing item", func(t *testing.T) {
		replaced := reg.Put("item1", TestItem{ID: 2, Name: "second"})

		if !replaced {
			t.Error("Put() on a taken name should report replaced = true")
		}

		got, err := reg.Get("item1")
		if err != nil {
			t.Fatalf("Get() error = %v, want nil", err)
		}
		if got.Name != "second" {
			t.Errorf("Get() after Put() = %q, want the last registration", got.Name)
		}
	})

	t.Run("put replaces register", func(t *testing.T) {
		if err := reg.Register("item2", TestItem{ID: 3, Name: "registered"}); err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}

		if replaced := reg.Put("item2", TestItem{ID: 4, Name: "replaced"}); !replaced {
			t.Error("Put() over a registered name should report replaced = true")
		}
	})
}

func TestGet(t *testing.T) {
	reg := New[TestItem]()
	_ = reg.Register("item1", TestItem{ID: 1, Name: "test"})

	t.Run("get existing item", func(t *testing.T) {
		got, err := reg.Get("item1")

		if err != nil {
			t.Fatalf("Get() error = %v, want nil", err)
		}

		if got.ID != 1 || got.Name != "test" {
			t.Errorf("Get() = %+v, want the registered item", got)
		}
	})

	t.Run("get missing item", func(t *testing.T) {
		_, err := reg.Get("missing")

		if !errors.IsErrorCode(err, errors.ErrNotFound) {
			t.Errorf("Get() missing should return ErrNotFound, got %v", err)
		}
	})
}

func TestRemove(t *testing.T) {
	reg := New[TestItem]()
	_ = reg.Register("item1", TestItem{ID: 1})

	if err := reg.Remove("item1"); err != nil {
		t.Fatalf("Remove() error = %v, want nil", err)
	}

	if reg.Has("item1") {
		t.Error("Has() after Remove() should be false")
	}

	if err := reg.Remove("item1"); !errors.IsErrorCode(err, errors.ErrNotFound) {
		t.Errorf("Remove() missing should return ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	reg := New[TestItem]()
	_ = reg.Register("charlie", TestItem{})
	_ = reg.Register("alpha", TestItem{})
	_ = reg.Register("bravo", TestItem{})

	names := reg.List()

	want := []string{"alpha", "bravo", "charlie"}
	if len(names) != len(want) {
		t.Fatalf("List() returned %d names, want %d", len(names), len(want))
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("List()[%d] = %q, want %q (sorted)", i, names[i], name)
		}
	}
}

func TestClear(t *testing.T) {
	reg := New[TestItem]()
	_ = reg.Register("item1", TestItem{})
	_ = reg.Register("item2", TestItem{})

	reg.Clear()

	if reg.Count() != 0 {
		t.Errorf("Count() after Clear() = %d, want 0", reg.Count())
	}
}

func TestMustRegister(t *testing.T) {
	reg := New[TestItem]()

	MustRegister(reg, "item1", TestItem{ID: 1})

	defer func() {
		if recover() == nil {
			t.Error("MustRegister() with duplicate should panic")
		}
	}()
	MustRegister(reg, "item1", TestItem{ID: 2})
}

func TestMustGet(t *testing.T) {
	reg := New[TestItem]()
	_ = reg.Register("item1", TestItem{ID: 1})

	got := MustGet(reg, "item1")
	if got.ID != 1 {
		t.Errorf("MustGet() = %+v, want the registered item", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustGet() missing should panic")
		}
	}()
	MustGet(reg, "missing")
}

func TestConcurrentAccess(t *testing.T) {
	reg := New[TestItem]()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("item%d", i)
			reg.Put(name, TestItem{ID: i})
			_, _ = reg.Get(name)
			_ = reg.Has(name)
			_ = reg.List()
		}(i)
	}
	wg.Wait()

	if reg.Count() != 32 {
		t.Errorf("Count() = %d, want 32", reg.Count())
	}
}
