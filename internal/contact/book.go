package contact

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tartampluch/go-contactbook/internal/config"
)

// AddressBook maps contact names to Records and remembers insertion order.
//
// An AddressBook is not safe for concurrent mutation; one owner at a time.
type AddressBook struct {
	records map[string]*Record
	order   []string

	// version changes on every structural modification so iterators can
	// detect that their view is stale.
	version uint64
}

// NewAddressBook returns an empty AddressBook.
func NewAddressBook() *AddressBook {
	return &AddressBook{records: make(map[string]*Record)}
}

// Add stores r under its current name. An existing entry with the same name
// is replaced in place and keeps its position.
func (b *AddressBook) Add(r *Record) {
	key := r.Name()
	if _, exists := b.records[key]; !exists {
		b.order = append(b.order, key)
		b.version++
	}
	b.records[key] = r
}

// Find returns the record stored under name.
func (b *AddressBook) Find(name string) (*Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Delete removes the record stored under name.
func (b *AddressBook) Delete(name string) error {
	if _, ok := b.records[name]; !ok {
		return fmt.Errorf("%w: %q", ErrContactNotFound, name)
	}
	delete(b.records, name)
	b.order = slices.DeleteFunc(b.order, func(k string) bool { return k == name })
	b.version++
	return nil
}

// Len returns the number of stored records.
func (b *AddressBook) Len() int {
	return len(b.order)
}

// Names returns the keys in insertion order.
func (b *AddressBook) Names() []string {
	return slices.Clone(b.order)
}

// Records returns the records in insertion order.
func (b *AddressBook) Records() []*Record {
	out := make([]*Record, len(b.order))
	for i, k := range b.order {
		out[i] = b.records[k]
	}
	return out
}

// String lists one "name : record" line per entry.
func (b *AddressBook) String() string {
	var sb strings.Builder
	for _, k := range b.order {
		fmt.Fprintf(&sb, config.FormatBookLine, k, b.records[k])
	}
	return sb.String()
}
