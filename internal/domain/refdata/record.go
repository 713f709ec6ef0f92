package refdata

import "strconv"

// Identifier is an opaque, comparable reference key. Numeric database
// ids and string codes are both carried in their string form.
type Identifier string

// IdentifierFromInt converts a numeric database id to an Identifier
func IdentifierFromInt(v int64) Identifier {
	return Identifier(strconv.FormatInt(v, 10))
}

// Int64 converts the identifier back to a numeric id
func (id Identifier) Int64() (int64, error) {
	return strconv.ParseInt(string(id), 10, 64)
}

// String returns the string form of the identifier
func (id Identifier) String() string {
	return string(id)
}

// ReferenceRecord is one selectable entry of a catalog response.
// ParentKeys carries the keys the record depends on; for records that
// also carry a dependent default (e.g. a ready item's goods type) the
// default is the first parent key.
type ReferenceRecord struct {
	ID         Identifier   `json:"id"`
	Label      string       `json:"label"`
	ParentKeys []Identifier `json:"parentKeys,omitempty"`
}

// DefaultParentKey returns the record's first parent key, used for
// auto-populating dependent fields when a record is picked.
func (r ReferenceRecord) DefaultParentKey() (Identifier, bool) {
	if len(r.ParentKeys) == 0 {
		return "", false
	}
	return r.ParentKeys[0], true
}

// CloneRecords deep-copies a catalog response so sessions never share
// option slices with each other or with the catalog's own buffers.
func CloneRecords(records []ReferenceRecord) []ReferenceRecord {
	if records == nil {
		return nil
	}
	out := make([]ReferenceRecord, len(records))
	for i, r := range records {
		out[i] = r
		if r.ParentKeys != nil {
			out[i].ParentKeys = append([]Identifier(nil), r.ParentKeys...)
		}
	}
	return out
}

// FindRecord returns the record with the given id, or nil
func FindRecord(records []ReferenceRecord, id Identifier) *ReferenceRecord {
	for i := range records {
		if records[i].ID == id {
			return &records[i]
		}
	}
	return nil
}
