package sensor

import "sort"

type partial struct {
	label string
	value string
}

// fragmentSetters lists the fragment kinds that contribute to a record.
var fragmentSetters = map[Kind]func(p *partial, v string){
	KindLabel: func(p *partial, v string) { p.label = v },
	KindValue: func(p *partial, v string) { p.value = v },
}

// Reconcile pairs the Label and Value fragments in entries into a Snapshot.
//
// Entries of any other kind are skipped. When a fragment appears more than
// once for the same id the last one wins. Ids whose label or value is missing
// or empty are dropped. Strings are kept exactly as supplied. The working set
// lives only for the duration of the call.
func Reconcile(entries []Entry) Snapshot {
	stats := Stats{Entries: len(entries)}
	byID := make(map[string]*partial)

	for _, e := range entries {
		key := ParseKey(e.Key)
		assign, ok := fragmentSetters[key.Kind]
		if !ok {
			stats.Ignored++
			continue
		}

		p, ok := byID[key.SensorID]
		if !ok {
			p = &partial{}
			byID[key.SensorID] = p
		}
		assign(p, e.Value)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		p := byID[id]
		if p.label == "" || p.value == "" {
			stats.Incomplete++
			continue
		}
		records = append(records, Record{ID: id, Label: p.label, Value: p.value})
	}

	return Snapshot{Stats: stats, records: records}
}
