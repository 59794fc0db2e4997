package sdb

// Entry is a single key/value pair within a table.
type Entry struct {
	Key   string
	Value string
}

// table is a named, insertion-ordered sequence of entries. The index maps
// keys to entry positions and exists purely to avoid linear scans; entries
// remains the single source of truth for order.
type table struct {
	name    string
	entries []Entry
	index   map[string]int
}

func newTable(name string) *table {
	return &table{name: name, index: make(map[string]int)}
}

func (t *table) get(key string) (string, bool) {
	if pos, ok := t.index[key]; ok {
		return t.entries[pos].Value, true
	}
	return "", false
}

// set upserts: an existing key keeps its position and receives the new
// value, a new key is appended. It reports the previous value, if any.
func (t *table) set(key, value string) (prev string, existed bool) {
	if pos, ok := t.index[key]; ok {
		prev = t.entries[pos].Value
		t.entries[pos].Value = value
		return prev, true
	}
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, Entry{Key: key, Value: value})
	return "", false
}

// dropLast undoes the most recent append.
func (t *table) dropLast() {
	last := len(t.entries) - 1
	delete(t.index, t.entries[last].Key)
	t.entries = t.entries[:last]
}

func (t *table) keys() []string {
	keys := make([]string, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.Key
	}
	return keys
}
