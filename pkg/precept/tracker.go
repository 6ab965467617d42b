// Package precept implements duplicate detection and removal for the
// precept lists attached to ideologies in a RimWorld save file.
//
// Detection and removal are split into two passes over the same
// entries: the first pass records which display names repeat, the
// second consults those counts while removing confirmed extras. The
// passes must stay separate; removing entries while still counting
// them would corrupt the duplicate detection.
package precept

import "sort"

// Entry is one key/count pair from a tracker, used for the residual
// report after a removal pass.
type Entry struct {
	Key   string
	Count int
}

// Tracker counts duplicate precept sightings within a single ideology.
// Only the second and later sightings of a display name are recorded,
// and the name counter includes the original sighting: a recorded
// count of N means the name occurs N times in the precepts list.
// Construct a fresh Tracker per ideology; they are never shared or
// reused across ideologies.
//
// Counts are decremented as removals are confirmed and are never
// re-derived from the remaining physical entries, so a declined
// removal leaves its count (and the residual report) behind.
type Tracker struct {
	names      map[string]int
	defs       map[string]int
	nameToDefs map[string][]string
	defToName  map[string]string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names:      make(map[string]int),
		defs:       make(map[string]int),
		nameToDefs: make(map[string][]string),
		defToName:  make(map[string]string),
	}
}

// Record registers one repeat sighting of a display name backed by the
// given definition identifier. The caller only records the second and
// later sightings; the first sighting is the original that is never
// scheduled for removal, but it is counted, so the first Record of a
// name sets its counter to 2.
func (tracker *Tracker) Record(def, name string) {
	if _, ok := tracker.names[name]; ok {
		tracker.names[name]++
	} else {
		tracker.names[name] = 2
	}
	tracker.defs[def]++

	if defs, ok := tracker.nameToDefs[name]; !ok {
		tracker.nameToDefs[name] = []string{def}
	} else if defs[0] != def {
		tracker.nameToDefs[name] = append(defs, def)
	}

	if _, ok := tracker.defToName[def]; !ok {
		tracker.defToName[def] = name
	}
}

// CountByName returns the recorded count for a display name. A name
// that was never recorded counts as 1: seen exactly once, so not a
// duplicate. That default is deliberate, not an error.
func (tracker *Tracker) CountByName(name string) int {
	if count, ok := tracker.names[name]; ok {
		return count
	}
	return 1
}

// HasName reports whether the display name was recorded as repeating.
func (tracker *Tracker) HasName(name string) bool {
	_, ok := tracker.names[name]
	return ok
}

// HasDef reports whether the definition identifier was recorded.
func (tracker *Tracker) HasDef(def string) bool {
	_, ok := tracker.defs[def]
	return ok
}

// RemoveByDef decrements the definition identifier's counter together
// with the counter of the display name it was recorded under. Both
// sides of the pair move together. Counters already at zero stay at
// zero; that is a benign state, not an error.
func (tracker *Tracker) RemoveByDef(def string) {
	tracker.decrementDef(def)
	if name, ok := tracker.defToName[def]; ok {
		tracker.decrementName(name)
	}
}

// RemoveByName decrements the display name's counter and the counter
// of every definition identifier ever recorded under it.
func (tracker *Tracker) RemoveByName(name string) {
	tracker.decrementName(name)
	for _, def := range tracker.nameToDefs[name] {
		tracker.decrementDef(def)
	}
}

// Entries returns every name counter followed by every definition
// counter, each group in sorted key order. Used only for the residual
// report at the end of a removal pass.
func (tracker *Tracker) Entries() []Entry {
	entries := make([]Entry, 0, len(tracker.names)+len(tracker.defs))
	for _, key := range sortedKeys(tracker.names) {
		entries = append(entries, Entry{Key: key, Count: tracker.names[key]})
	}
	for _, key := range sortedKeys(tracker.defs) {
		entries = append(entries, Entry{Key: key, Count: tracker.defs[key]})
	}
	return entries
}

func (tracker *Tracker) decrementName(name string) {
	if count, ok := tracker.names[name]; ok && count > 0 {
		tracker.names[name] = count - 1
	}
}

func (tracker *Tracker) decrementDef(def string) {
	if count, ok := tracker.defs[def]; ok && count > 0 {
		tracker.defs[def] = count - 1
	}
}

func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
