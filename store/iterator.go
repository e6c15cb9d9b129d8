package store

import (
	"bytes"
	"sync"

	"github.com/google/btree"

	"github.com/stackbound/ledger/errors"
)

///////////////////////////////////////////////////////
// From Items to Iterator

type btreeIter struct {
	data    btree.Item
	hasMore bool
	read    <-chan btree.Item
	stop    chan<- struct{}
	once    sync.Once
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

func ascendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	read := make(chan btree.Item)
	// ensure we never block when we call close()
	stop := make(chan struct{}, 1)
	iter := &btreeIter{
		read: read,
		stop: stop,
	}

	insert := func(item btree.Item) bool {
		select {
		case read <- item:
			return true
		case <-stop:
			close(read)
			return false
		}
	}

	go func() {
		if start == nil && end == nil {
			bt.Ascend(insert)
		} else if start == nil { // end != nil
			bt.AscendLessThan(bkey{end}, insert)
		} else if end == nil { // start != nil
			bt.AscendGreaterOrEqual(bkey{start}, insert)
		} else { // both != nil
			bt.AscendRange(bkey{start}, bkey{end}, insert)
		}
		close(read)
	}()

	iter.next()
	return iter
}

func descendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	read := make(chan btree.Item)
	// ensure we never block when we call close()
	stop := make(chan struct{}, 1)
	iter := &btreeIter{
		read: read,
		stop: stop,
	}

	insert := func(item btree.Item) bool {
		select {
		case read <- item:
			return true
		case <-stop:
			close(read)
			return false
		}
	}

	go func() {
		if start == nil && end == nil {
			bt.Descend(insert)
		} else if start == nil { // end != nil
			bt.DescendLessOrEqual(bkeyLess{end}, insert)
		} else if end == nil { // start != nil
			bt.DescendGreaterThan(bkeyLess{start}, insert)
		} else { // both != nil
			bt.DescendRange(bkeyLess{end}, bkeyLess{start}, insert)
		}
		close(read)
	}()

	iter.next()
	return iter
}

func (b *btreeIter) wrap(parent Iterator, reverse bool) *itemIter {
	return &itemIter{
		wrap:    b,
		parent:  parent,
		reverse: reverse,
	}
}

func (b *btreeIter) next() {
	b.data, b.hasMore = <-b.read
}

func (b *btreeIter) close() {
	b.once.Do(func() {
		b.stop <- struct{}{}
	})
}

// get requires this is valid, gets what we are pointing at
func (b *btreeIter) get() keyer {
	return b.data.(keyer)
}

func (b *btreeIter) valid() bool {
	return b.hasMore
}

// itemIter combines an iterator over the cache btree with the iterator
// of the backing store. Cached writes shadow the parent, cached deletes
// hide it.
type itemIter struct {
	wrap    *btreeIter
	parent  Iterator
	reverse bool

	// one item read ahead of the parent iterator
	parentKey    []byte
	parentValue  []byte
	parentDone   bool
	parentLoaded bool
}

var _ Iterator = (*itemIter)(nil)

// Next moves the iterator to the next sequential key, merging the cache
// with the backing store. It returns ErrIteratorDone when exhausted.
func (i *itemIter) Next() ([]byte, []byte, error) {
	for {
		if err := i.loadParent(); err != nil {
			return nil, nil, err
		}
		switch i.firstKey() {
		case none:
			return nil, nil, errors.ErrIteratorDone

		case parent:
			key, value := i.parentKey, i.parentValue
			i.parentLoaded = false
			return key, value, nil

		case both:
			// cache entry shadows the backing store
			i.parentLoaded = false
			fallthrough
		case us:
			item := i.wrap.get()
			i.wrap.next()
			if set, ok := item.(setItem); ok {
				return set.Key(), set.value, nil
			}
			// a deleted item hides any parent value, keep scanning
		}
	}
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	if i.parent != nil {
		i.parent.Release()
	}
	i.wrap.close()
}

// loadParent reads one item ahead of the parent iterator, so keys can
// be compared with the cache.
func (i *itemIter) loadParent() error {
	if i.parentLoaded || i.parentDone || i.parent == nil {
		return nil
	}
	key, value, err := i.parent.Next()
	switch {
	case err == nil:
		i.parentKey = key
		i.parentValue = value
		i.parentLoaded = true
	case errors.ErrIteratorDone.Is(err):
		i.parentDone = true
	default:
		return err
	}
	return nil
}

// firstKey selects the iterator with the lowest (or highest when
// reversed) key, if any.
func (i *itemIter) firstKey() source {
	parentValid := i.parentLoaded && !i.parentDone
	// if only one or none is valid, it is clear which to use
	if !parentValid {
		if !i.wrap.valid() {
			return none
		}
		return us
	} else if !i.wrap.valid() {
		return parent
	}

	// both are valid... compare keys....
	cmp := bytes.Compare(i.parentKey, i.wrap.get().Key())
	if i.reverse {
		cmp = -cmp
	}
	if cmp < 0 {
		return parent
	} else if cmp > 0 {
		return us
	}
	return both
}
