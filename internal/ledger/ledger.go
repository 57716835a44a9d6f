// Package ledger models the per-project inventory and spend state as an
// ordered collection keyed by case-insensitive item name.
package ledger

import (
	"math"
	"strings"
)

// Entry is one stocked item.
type Entry struct {
	Name       string
	Quantity   float64
	Price      float64
	TotalSpent float64
}

// UsedEntry is the cumulative consumed quantity of one item.
type UsedEntry struct {
	Name     string
	Quantity float64
}

// Ledger holds inventory and used-item state. Lookups are O(1) on the
// lowercased name; iteration preserves insertion order.
type Ledger struct {
	entries   []*Entry
	used      []*UsedEntry
	byKey     map[string]*Entry
	usedByKey map[string]*UsedEntry
}

// Key normalizes an item name for matching: "Cement" and "cement" share
// one ledger entry.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// New builds a ledger from existing inventory and used-item state.
func New(entries []Entry, used []UsedEntry) *Ledger {
	l := &Ledger{
		byKey:     make(map[string]*Entry, len(entries)),
		usedByKey: make(map[string]*UsedEntry, len(used)),
	}
	for i := range entries {
		e := entries[i]
		l.entries = append(l.entries, &e)
		l.byKey[Key(e.Name)] = &e
	}
	for i := range used {
		u := used[i]
		l.used = append(l.used, &u)
		l.usedByKey[Key(u.Name)] = &u
	}
	return l
}

// RecordPurchase adds quantity of an item at the given unit price, merging
// into an existing entry on a case-insensitive name match. Returns the
// purchase cost (price * quantity).
func (l *Ledger) RecordPurchase(name string, quantity, price float64) float64 {
	cost := price * quantity
	if e, ok := l.byKey[Key(name)]; ok {
		e.Quantity += quantity
		e.TotalSpent += cost
		e.Price = price
		return cost
	}
	e := &Entry{Name: name, Quantity: quantity, Price: price, TotalSpent: cost}
	l.entries = append(l.entries, e)
	l.byKey[Key(name)] = e
	return cost
}

// Available returns the stocked quantity for an item name.
func (l *Ledger) Available(name string) (float64, bool) {
	e, ok := l.byKey[Key(name)]
	if !ok {
		return 0, false
	}
	return e.Quantity, true
}

// RecordUtilisation consumes quantity of an item. Fails if the item is not
// stocked or the requested quantity exceeds what is available; on success
// the stock is decremented (floored at zero) and the used counter grows.
func (l *Ledger) RecordUtilisation(name string, quantity float64) error {
	e, ok := l.byKey[Key(name)]
	if !ok {
		return &NotInInventoryError{Item: name}
	}
	if quantity > e.Quantity {
		return &InsufficientQuantityError{Item: name, Requested: quantity, Available: e.Quantity}
	}
	e.Quantity = math.Max(0, e.Quantity-quantity)

	if u, ok := l.usedByKey[Key(name)]; ok {
		u.Quantity += quantity
	} else {
		u := &UsedEntry{Name: name, Quantity: quantity}
		l.used = append(l.used, u)
		l.usedByKey[Key(name)] = u
	}
	return nil
}

// Entries returns the inventory in insertion order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, *e)
	}
	return out
}

// Used returns the used-item counters in insertion order.
func (l *Ledger) Used() []UsedEntry {
	out := make([]UsedEntry, 0, len(l.used))
	for _, u := range l.used {
		out = append(out, *u)
	}
	return out
}

// TotalSpent sums total_spent across all entries. After reconciliation it
// must equal the project expenditure.
func (l *Ledger) TotalSpent() float64 {
	var sum float64
	for _, e := range l.entries {
		sum += e.TotalSpent
	}
	return sum
}
