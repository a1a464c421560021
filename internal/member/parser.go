// SPDX-License-Identifier: MPL-2.0

package member

import (
	"math"
	"strconv"
	"strings"

	"github.com/keranjangkita/keranjang/pkg/types"
)

const (
	columnName column = iota
	columnPhone
	columnLevel
	columnDiscount
	columnCount
)

type (
	// column is a logical field of the directory feed.
	column int

	// columnIndex maps each logical column to its position in a row, -1 when
	// the feed lacks it.
	columnIndex [columnCount]int
)

// synonyms lists, per logical column, the substrings that identify it in a
// lowercased header cell. Columns are resolved in declaration order.
var synonyms = [columnCount][]string{
	columnName:     {"nama", "name"},
	columnPhone:    {"hp", "phone", "wa", "nomor", "telp"},
	columnLevel:    {"level", "status", "tipe"},
	columnDiscount: {"diskon", "potongan", "discount"},
}

// ParseDirectory converts the raw feed into members, in feed order. It never
// fails: a feed without a name or phone column yields no members, and rows
// without a name or phone digits are skipped.
func ParseDirectory(raw string) []Member {
	rows := splitRows(raw)
	if len(rows) == 0 {
		return nil
	}

	idx, ok := resolveColumns(rows[0])
	if !ok {
		return nil
	}

	var members []Member
	for _, row := range rows[1:] {
		m, ok := idx.member(row)
		if !ok {
			continue
		}
		members = append(members, m)
	}
	return members
}

// resolveColumns finds the logical columns in the header row. A header cell
// already claimed by an earlier column is not reused.
func resolveColumns(header []string) (columnIndex, bool) {
	var idx columnIndex
	claimed := make([]bool, len(header))

	for c := range columnCount {
		idx[c] = -1
		for i, cell := range header {
			if claimed[i] || !containsAny(strings.ToLower(strings.TrimSpace(cell)), synonyms[c]) {
				continue
			}
			idx[c] = i
			claimed[i] = true
			break
		}
	}
	return idx, idx[columnName] >= 0 && idx[columnPhone] >= 0
}

func (idx columnIndex) field(row []string, c column) string {
	i := idx[c]
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func (idx columnIndex) member(row []string) (Member, bool) {
	name := idx.field(row, columnName)
	phone := types.SanitizePhone(idx.field(row, columnPhone))
	if name == "" || phone == "" {
		return Member{}, false
	}

	level := idx.field(row, columnLevel)
	if level == "" {
		level = DefaultLevel
	}

	return Member{
		Name:               name,
		Phone:              phone,
		Level:              level,
		DiscountPercentage: ParseDiscount(idx.field(row, columnDiscount)),
	}, true
}

// ParseDiscount reads a discount cell. "10%" and "10" are ten percent; a bare
// value strictly between 0 and 1 is a fraction, so "0.1" is ten percent too.
// Write "0.5%" for half a percent. Unparseable values are 0 and the result is
// clamped to [0, 100].
func ParseDiscount(raw string) types.DiscountPercentage {
	s := strings.TrimSpace(raw)
	percent := strings.Contains(s, "%")
	if percent {
		s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	if !percent && v > 0 && v < 1 {
		v *= 100
	}
	return types.DiscountPercentage(v).Clamp()
}

// splitRows splits the feed into trimmed fields, dropping blank lines.
func splitRows(raw string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, splitFields(line))
	}
	return rows
}

// splitFields splits a line on commas outside double quotes. A quote pair
// around a whole field is removed and a doubled quote inside a quoted field
// stands for one literal quote.
func splitFields(line string) []string {
	var (
		fields []string
		cur    strings.Builder
		quoted bool
	)
	flush := func() {
		fields = append(fields, unquote(strings.TrimSpace(cur.String())))
		cur.Reset()
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"' && quoted && i+1 < len(runes) && runes[i+1] == '"':
			cur.WriteRune(r)
			i++
		case r == '"':
			quoted = !quoted
			cur.WriteRune(r)
		case r == ',' && !quoted:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return fields
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
