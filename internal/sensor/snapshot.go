package sensor

import "time"

// Entry is one raw key/value pair observed during an enumeration.
type Entry struct {
	Key   string
	Value string
}

// Record is a complete sensor reading. Label and Value are never empty.
type Record struct {
	ID    string
	Label string
	Value string
}

// Stats describes how an enumeration was reconciled.
type Stats struct {
	Entries    int // raw entries seen
	Ignored    int // entries whose key is not a Label or Value fragment
	Incomplete int // sensor ids dropped for a missing or empty fragment
}

// Snapshot is the ordered set of complete records for one polling cycle.
// Records are sorted by id, so At(i) addresses the same sensor from cycle to
// cycle as long as the source publishes the same ids.
type Snapshot struct {
	Time  time.Time
	Stats Stats

	records []Record
}

// Len returns the number of records.
func (s Snapshot) Len() int {
	return len(s.records)
}

// Empty reports whether the snapshot holds no records.
func (s Snapshot) Empty() bool {
	return len(s.records) == 0
}

// At returns the i-th record in id order. It panics if i is out of range.
func (s Snapshot) At(i int) Record {
	return s.records[i]
}

// Lookup returns the record with the given sensor id.
func (s Snapshot) Lookup(id string) (Record, bool) {
	lo, hi := 0, len(s.records)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if s.records[mid].ID < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(s.records) && s.records[lo].ID == id {
		return s.records[lo], true
	}

	return Record{}, false
}

// Records returns a copy of the records in id order.
func (s Snapshot) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)

	return out
}
