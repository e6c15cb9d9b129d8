package store

import (
	"bytes"
	"testing"

	"github.com/stackbound/ledger/errors"
)

func TestBTreeCacheGetSetDelete(t *testing.T) {
	db := MemStore()

	k, v := []byte("french"), []byte("fry")

	if got, err := db.Get(k); err != nil || got != nil {
		t.Fatalf("unexpected value in a fresh store: %X (%+v)", got, err)
	}
	if has, err := db.Has(k); err != nil || has {
		t.Fatalf("unexpected key in a fresh store (%+v)", err)
	}

	if err := db.Set(k, v); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if got, err := db.Get(k); err != nil || !bytes.Equal(got, v) {
		t.Fatalf("unexpected value: %X (%+v)", got, err)
	}
	if has, err := db.Has(k); err != nil || !has {
		t.Fatalf("missing key (%+v)", err)
	}

	if err := db.Delete(k); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}
	if got, err := db.Get(k); err != nil || got != nil {
		t.Fatalf("value must be gone: %X (%+v)", got, err)
	}
}

func TestBTreeCacheWrapWrite(t *testing.T) {
	db := MemStore()
	if err := db.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}

	cache := db.CacheWrap()
	if err := cache.Set([]byte("b"), []byte("2")); err != nil {
		t.Fatalf("cannot set in cache: %+v", err)
	}
	if err := cache.Delete([]byte("a")); err != nil {
		t.Fatalf("cannot delete in cache: %+v", err)
	}

	// the parent is untouched until the cache is written
	if got, _ := db.Get([]byte("b")); got != nil {
		t.Fatal("cache write leaked into the parent")
	}
	if got, _ := db.Get([]byte("a")); got == nil {
		t.Fatal("cache delete leaked into the parent")
	}

	if err := cache.Write(); err != nil {
		t.Fatalf("cannot write cache: %+v", err)
	}
	if got, _ := db.Get([]byte("b")); !bytes.Equal(got, []byte("2")) {
		t.Fatalf("unexpected value after write: %X", got)
	}
	if got, _ := db.Get([]byte("a")); got != nil {
		t.Fatal("delete was not applied on write")
	}
}

func TestBTreeCacheWrapDiscard(t *testing.T) {
	db := MemStore()
	if err := db.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}

	cache := db.CacheWrap()
	if err := cache.Set([]byte("a"), []byte("overwritten")); err != nil {
		t.Fatalf("cannot set in cache: %+v", err)
	}
	if err := cache.Set([]byte("b"), []byte("2")); err != nil {
		t.Fatalf("cannot set in cache: %+v", err)
	}
	cache.Discard()

	if got, _ := db.Get([]byte("a")); !bytes.Equal(got, []byte("1")) {
		t.Fatalf("discard must not modify the parent: %X", got)
	}
	if got, _ := db.Get([]byte("b")); got != nil {
		t.Fatal("discard must drop all cached writes")
	}
}

func readAll(t *testing.T, it Iterator) []Model {
	t.Helper()
	defer it.Release()

	var res []Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		if err != nil {
			t.Fatalf("iterator failure: %+v", err)
		}
		res = append(res, Model{Key: key, Value: value})
	}
}

func TestBTreeCacheWrapIterator(t *testing.T) {
	db := MemStore()
	for _, kv := range [][2]string{{"a", "1"}, {"c", "3"}, {"e", "5"}} {
		if err := db.Set([]byte(kv[0]), []byte(kv[1])); err != nil {
			t.Fatalf("cannot set: %+v", err)
		}
	}

	cache := db.CacheWrap()
	// shadow one, delete one, add one
	if err := cache.Set([]byte("c"), []byte("33")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}
	if err := cache.Delete([]byte("e")); err != nil {
		t.Fatalf("cannot delete: %+v", err)
	}
	if err := cache.Set([]byte("b"), []byte("2")); err != nil {
		t.Fatalf("cannot set: %+v", err)
	}

	it, err := cache.Iterator(nil, nil)
	if err != nil {
		t.Fatalf("cannot create iterator: %+v", err)
	}
	got := readAll(t, it)

	want := []Model{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
		{Key: []byte("c"), Value: []byte("33")},
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected result size: %d", len(got))
	}
	for i := range want {
		if !bytes.Equal(got[i].Key, want[i].Key) || !bytes.Equal(got[i].Value, want[i].Value) {
			t.Fatalf("unexpected model %d: %X=%X", i, got[i].Key, got[i].Value)
		}
	}

	rit, err := cache.ReverseIterator(nil, nil)
	if err != nil {
		t.Fatalf("cannot create reverse iterator: %+v", err)
	}
	rgot := readAll(t, rit)
	if len(rgot) != len(want) {
		t.Fatalf("unexpected reverse result size: %d", len(rgot))
	}
	for i := range want {
		j := len(want) - 1 - i
		if !bytes.Equal(rgot[i].Key, want[j].Key) {
			t.Fatalf("unexpected reverse order at %d: %X", i, rgot[i].Key)
		}
	}
}

func TestBTreeCacheWrapRangeIterator(t *testing.T) {
	db := MemStore()
	for _, k := range []string{"a", "b", "c", "d"} {
		if err := db.Set([]byte(k), []byte(k)); err != nil {
			t.Fatalf("cannot set: %+v", err)
		}
	}

	it, err := db.Iterator([]byte("b"), []byte("d"))
	if err != nil {
		t.Fatalf("cannot create iterator: %+v", err)
	}
	got := readAll(t, it)
	if len(got) != 2 {
		t.Fatalf("unexpected range size: %d", len(got))
	}
	if !bytes.Equal(got[0].Key, []byte("b")) || !bytes.Equal(got[1].Key, []byte("c")) {
		t.Fatalf("unexpected range: %X %X", got[0].Key, got[1].Key)
	}
}
