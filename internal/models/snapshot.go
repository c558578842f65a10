package models

import "time"

// Snapshot is the result of one fetch-and-parse cycle. It is either fully
// empty or fully populated and is never mutated after it is produced.
type Snapshot struct {
	Rows      []IpoRecord `json:"ipos"`
	Columns   []string    `json:"columns"`
	FetchedAt time.Time   `json:"fetched_at"`
	IsEmpty   bool        `json:"is_empty"`
}

// NewSnapshot builds a snapshot from extracted rows. Columns are dropped when
// there are no rows so an empty snapshot carries nothing but its timestamp.
func NewSnapshot(columns []string, rows []IpoRecord, fetchedAt time.Time) Snapshot {
	if len(rows) == 0 {
		return EmptySnapshot(fetchedAt)
	}

	return Snapshot{
		Rows:      rows,
		Columns:   columns,
		FetchedAt: fetchedAt,
	}
}

func EmptySnapshot(fetchedAt time.Time) Snapshot {
	return Snapshot{
		Rows:      []IpoRecord{},
		Columns:   []string{},
		FetchedAt: fetchedAt,
		IsEmpty:   true,
	}
}

// Names returns the distinct IPO names in order of first appearance.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s.Rows))
	seen := make(map[string]struct{}, len(s.Rows))
	for _, r := range s.Rows {
		if _, dup := seen[r.Name]; dup {
			continue
		}
		seen[r.Name] = struct{}{}
		names = append(names, r.Name)
	}
	return names
}

func (s Snapshot) HasName(name string) bool {
	for _, r := range s.Rows {
		if r.Name == name {
			return true
		}
	}
	return false
}
