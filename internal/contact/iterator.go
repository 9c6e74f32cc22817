package contact

import (
	"iter"

	"github.com/tartampluch/go-contactbook/internal/config"
)

// Entry is one name/record pair of a Batch.
type Entry struct {
	Name   string
	Record *Record
}

// Batch is a run of consecutive AddressBook entries in insertion order.
type Batch []Entry

// Names returns the keys of the batch in order.
func (b Batch) Names() []string {
	names := make([]string, len(b))
	for i, e := range b {
		names[i] = e.Name
	}
	return names
}

// Get returns the record stored under name in this batch.
func (b Batch) Get(name string) (*Record, bool) {
	for _, e := range b {
		if e.Name == name {
			return e.Record, true
		}
	}
	return nil, false
}

// Iterator yields an AddressBook in batches. Each Iterator owns its cursor,
// so several of them may walk the same book independently. It never
// modifies the book.
type Iterator struct {
	book    *AddressBook
	size    int
	index   int
	version uint64
}

// Iterator returns a single-pass batch iterator over b.
func (b *AddressBook) Iterator(batchSize int) (*Iterator, error) {
	if batchSize < config.MinBatchSize {
		return nil, newValidationError(FieldBatch, "", config.ErrMsgBatchSize)
	}
	return &Iterator{book: b, size: batchSize, version: b.version}, nil
}

// Next returns the next batch. It returns ErrExhausted once every entry was
// yielded and ErrConcurrentModification if names were added to or deleted
// from the book since the iterator was created.
func (it *Iterator) Next() (Batch, error) {
	if it.version != it.book.version {
		return nil, ErrConcurrentModification
	}
	total := len(it.book.order)
	if it.index >= total {
		return nil, ErrExhausted
	}

	end := min(it.index+it.size, total)
	batch := make(Batch, 0, end-it.index)
	for _, k := range it.book.order[it.index:end] {
		batch = append(batch, Entry{Name: k, Record: it.book.records[k]})
	}
	it.index = end
	return batch, nil
}

// Batches is a range-over-func form of Iterator. It stops early
// on the first error, including a concurrent modification.
func (b *AddressBook) Batches(batchSize int) iter.Seq[Batch] {
	return func(yield func(Batch) bool) {
		it, err := b.Iterator(batchSize)
		if err != nil {
			return
		}
		for {
			batch, err := it.Next()
			if err != nil || !yield(batch) {
				return
			}
		}
	}
}
