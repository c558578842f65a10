package models

import (
	"bytes"
	"encoding/json"
)

// Field is one cell of a source row keyed by its column header.
type Field struct {
	Column string
	Value  string
}

// IpoRecord is one row of the upstream GMP table. The column set is not
// fixed upstream, so every cell is kept in header order; Name mirrors the
// IPO column and is never blank.
type IpoRecord struct {
	Name   string
	Fields []Field
}

// Get returns the value of the given column.
func (r IpoRecord) Get(column string) (string, bool) {
	for _, f := range r.Fields {
		if f.Column == column {
			return f.Value, true
		}
	}
	return "", false
}

func (r IpoRecord) Map() map[string]string {
	m := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		m[f.Column] = f.Value
	}
	return m
}

// MarshalJSON encodes the record as an object whose keys keep header order.
func (r IpoRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Column)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
