package investorgain

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"ipotracker/internal/models"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	// TableSelector marks the GMP table: the first table with class "table".
	TableSelector = "table.table"

	// NameColumn is the header of the column identifying each IPO.
	NameColumn = "IPO"

	maxSpan = 64
)

// Table is the GMP table after normalization.
type Table struct {
	Columns []string
	Rows    []models.IpoRecord
}

func (t *Table) Snapshot(fetchedAt time.Time) models.Snapshot {
	return models.NewSnapshot(t.Columns, t.Rows, fetchedAt)
}

// Extract turns a page into a snapshot. It never fails: anything Parse
// rejects becomes an empty snapshot.
func Extract(raw string, fetchedAt time.Time) models.Snapshot {
	t, err := Parse(raw)
	if err != nil {
		return models.EmptySnapshot(fetchedAt)
	}
	return t.Snapshot(fetchedAt)
}

// Parse locates the GMP table, keys each row by the header cells and drops
// rows without an IPO name. Row order follows the markup.
func Parse(raw string) (table *Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			table = nil
			err = fmt.Errorf("%w: %v", ErrMalformedMarkup, r)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMarkup, err)
	}

	sel := doc.Find(TableSelector).First()
	if sel.Length() == 0 {
		return nil, ErrTableNotFound
	}

	header, body := splitRows(sel)
	if header == nil {
		return nil, ErrNoHeader
	}

	columns := headerNames(rowCells(header, make(map[int]*spanned)))
	if len(columns) == 0 {
		return nil, ErrNoHeader
	}

	nameIdx := -1
	for i, col := range columns {
		if strings.EqualFold(col, NameColumn) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, ErrNameColumnMissing
	}

	rows := make([]models.IpoRecord, 0, len(body))
	carry := make(map[int]*spanned)
	for n, tr := range body {
		cells := rowCells(tr, carry)
		if len(cells) == 0 {
			continue
		}
		if len(cells) > len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", ErrColumnMismatch, n+1, len(cells), len(columns))
		}

		name := ""
		if nameIdx < len(cells) {
			name = cells[nameIdx]
		}
		if name == "" {
			continue
		}

		fields := make([]models.Field, len(columns))
		for i, col := range columns {
			v := ""
			if i < len(cells) {
				v = cells[i]
			}
			fields[i] = models.Field{Column: col, Value: v}
		}

		rows = append(rows, models.IpoRecord{Name: name, Fields: fields})
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// splitRows returns the header row and the data rows that belong to table
// itself, ignoring rows of nested tables. The header is the first thead row
// when the table has one, otherwise its first row.
func splitRows(table *goquery.Selection) (*goquery.Selection, []*goquery.Selection) {
	own := table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(table)
	})

	var head, rest []*goquery.Selection
	own.Each(func(_ int, tr *goquery.Selection) {
		if goquery.NodeName(tr.Parent()) == "thead" {
			head = append(head, tr)
			return
		}
		rest = append(rest, tr)
	})

	switch {
	case len(head) > 0:
		return head[0], rest
	case len(rest) > 0:
		return rest[0], rest[1:]
	default:
		return nil, nil
	}
}

// spanned is a cell that a rowspan carries into the rows below it.
type spanned struct {
	text string
	left int
}

// rowCells returns the normalized text of each th/td of a row, repeating
// cells that span several columns. carry holds the cells that rowspans of
// earlier rows place into this row, keyed by column; it is updated for the
// next row.
func rowCells(tr *goquery.Selection, carry map[int]*spanned) []string {
	var cells []string
	next := make(map[int]*spanned)

	take := func() {
		for s, ok := carry[len(cells)]; ok; s, ok = carry[len(cells)] {
			idx := len(cells)
			cells = append(cells, s.text)
			delete(carry, idx)
			if s.left > 1 {
				next[idx] = &spanned{text: s.text, left: s.left - 1}
			}
		}
	}

	tr.ChildrenFiltered("th,td").Each(func(_ int, cell *goquery.Selection) {
		take()

		text := cellText(cell)
		cols, rows := span(cell, "colspan"), span(cell, "rowspan")
		for range cols {
			if rows > 1 {
				next[len(cells)] = &spanned{text: text, left: rows - 1}
			}
			cells = append(cells, text)
		}
	})
	take()

	// a wider cell of this row covered these columns
	for i := range carry {
		if i < len(cells) {
			delete(carry, i)
		}
	}
	for len(carry) > 0 {
		cells = append(cells, "")
		take()
	}

	maps.Copy(carry, next)
	return cells
}

func span(cell *goquery.Selection, attr string) int {
	v, ok := cell.Attr(attr)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 2 {
		return 1
	}
	return min(n, maxSpan)
}

func cellText(cell *goquery.Selection) string {
	var b strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "br":
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range cell.Nodes {
		walk(n)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// headerNames names blank headers "Unnamed: N" and suffixes repeated
// headers with ".1", ".2", ... so every column key is unique.
func headerNames(cells []string) []string {
	names := make([]string, len(cells))
	seen := make(map[string]int, len(cells))

	for i, c := range cells {
		name := c
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		if n, dup := seen[name]; dup {
			base := name
			for {
				name = fmt.Sprintf("%s.%d", base, n)
				n++
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}

		seen[name] = 1
		names[i] = name
	}

	return names
}
