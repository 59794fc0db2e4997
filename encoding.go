package sdb

// encodeTables flattens the data model into buf:
//
//	table count (int32)
//	per table: name len (int32), name,
//	           entry count (int32),
//	           per entry: key len (int32), value len (int32), key, value
//
// All integers are little-endian. The result is the plaintext payload
// which is compressed before it reaches disk.
func encodeTables(buf *writeBuffer, tables []*table) {
	buf.reset()
	buf.putInt32(int32(len(tables)))
	for _, t := range tables {
		buf.putInt32(int32(len(t.name)))
		buf.putString(t.name)
		buf.putInt32(int32(len(t.entries)))
		for _, e := range t.entries {
			buf.putInt32(int32(len(e.Key)))
			buf.putInt32(int32(len(e.Value)))
			buf.putString(e.Key)
			buf.putString(e.Value)
		}
	}
}

// decodeTables is the exact inverse of encodeTables. Duplicate keys from
// legacy appends collapse into the last written value; duplicate table
// names and trailing bytes are rejected as corrupt.
func decodeTables(payload []byte) ([]*table, error) {
	r := byteReader{buf: payload}

	tableCount, err := r.readInt32()
	if err != nil || tableCount < 0 {
		return nil, ErrCorruptData
	}

	tables := make([]*table, 0, tableCount)
	seen := make(map[string]struct{}, tableCount)

	for i := int32(0); i < tableCount; i++ {
		nameLen, err := r.readInt32()
		if err != nil {
			return nil, err
		}
		name, err := r.readString(int(nameLen))
		if err != nil {
			return nil, err
		}
		if _, ok := seen[name]; ok {
			return nil, ErrCorruptData
		}
		seen[name] = struct{}{}

		entryCount, err := r.readInt32()
		if err != nil || entryCount < 0 {
			return nil, ErrCorruptData
		}

		t := newTable(name)
		for j := int32(0); j < entryCount; j++ {
			keyLen, err := r.readInt32()
			if err != nil {
				return nil, err
			}
			valueLen, err := r.readInt32()
			if err != nil {
				return nil, err
			}
			key, err := r.readString(int(keyLen))
			if err != nil {
				return nil, err
			}
			value, err := r.readString(int(valueLen))
			if err != nil {
				return nil, err
			}
			t.set(key, value)
		}
		tables = append(tables, t)
	}

	if r.remaining() != 0 {
		return nil, ErrCorruptData
	}
	return tables, nil
}
