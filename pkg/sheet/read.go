// Package sheet reads sign-up sheets and rosters and writes finished rotas.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arnavshah/student-rota/pkg/models"
)

var (
	ErrEmptySheet    = errors.New("sheet has no header row")
	ErrMissingColumn = errors.New("required column missing")
)

const bom = "\ufeff"

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr
}

// ReadAvailability parses a sign-up sheet. The first header cell names the label
// column, the remaining named header cells are student nicknames. Repeated names
// are kept and left for scheduler.CheckStudents to reject.
func ReadAvailability(r io.Reader) (*models.AvailabilityTable, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptySheet
	}
	if err != nil {
		return nil, fmt.Errorf("read availability header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], bom)

	// columns without a name (trailing commas) are dropped
	table := &models.AvailabilityTable{Header: header[0]}
	var cols []int
	for i, name := range header[1:] {
		if name = strings.TrimSpace(name); name != "" {
			table.Students = append(table.Students, name)
			cols = append(cols, i+1)
		}
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read availability line %d: %w", line, err)
		}
		cells := make([]string, len(cols))
		for i, col := range cols {
			if col < len(record) {
				cells[i] = strings.TrimSpace(record[col])
			}
		}
		table.Rows = append(table.Rows, models.AvailabilityRow{Label: record[0], Cells: cells})
	}
	return table, nil
}

// ReadRoster parses the member list. Nickname is required; IsNewbie and Language are optional.
func ReadRoster(r io.Reader) (models.Roster, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptySheet
	}
	if err != nil {
		return nil, fmt.Errorf("read roster header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], bom)

	cols := make(map[string]int)
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	nick, ok := cols["Nickname"]
	if !ok {
		return nil, fmt.Errorf("%w: Nickname", ErrMissingColumn)
	}
	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	roster := make(models.Roster)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster line %d: %w", line, err)
		}
		if nick >= len(record) || strings.TrimSpace(record[nick]) == "" {
			continue
		}
		name := strings.TrimSpace(record[nick])

		newbie := 0
		if v := field(record, "IsNewbie"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("roster line %d: IsNewbie %q: %w", line, v, err)
			}
			newbie = int(f)
		}
		roster[name] = models.Student{
			Nickname: name,
			IsNewbie: newbie != 0,
			Language: field(record, "Language"),
		}
	}
	return roster, nil
}
