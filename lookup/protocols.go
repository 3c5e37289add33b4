// Package lookup loads the reference tables used to classify flow records:
// the IANA protocol-number table and the user-supplied (port, protocol) to
// tag lookup table.
package lookup

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bahetianjali/flow-low-parser/metrics"
)

// UnknownProtocol is the keyword returned when a protocol number has no
// entry in the table.
const UnknownProtocol = "unknown"

var (
	ErrProtocolHeader = errors.New("protocol table: missing Decimal or Keyword column")
)

// ProtocolTable maps an IANA protocol number to its lowercase keyword
// (eg: 6 -> "tcp"). Read-only after load.
type ProtocolTable map[int]string

// Name resolves a protocol number to its keyword. Numbers without an entry
// resolve to UnknownProtocol.
func (t ProtocolTable) Name(number int) string {
	name, ok := t[number]
	if !ok {
		return UnknownProtocol
	}
	return name
}

// Known reports whether the protocol number has an entry in the table.
func (t ProtocolTable) Known(number int) bool {
	_, ok := t[number]
	return ok
}

// LoadProtocolTable reads a protocol-number reference CSV. The header must
// contain Decimal and Keyword columns; any other columns are ignored.
// Rows whose Decimal is a hyphenated range (eg: "146-252") or fails integer
// parsing are skipped and logged. Duplicate numbers keep the last row.
// Only opening or reading the file itself is fatal.
func LoadProtocolTable(path string) (ProtocolTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("protocol table: %w", err)
	}
	defer f.Close()
	return ReadProtocolTable(f)
}

// ReadProtocolTable parses protocol-number reference rows from r.
func ReadProtocolTable(r io.Reader) (ProtocolTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("protocol table: reading header: %w", err)
	}
	decimalCol, keywordCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Decimal":
			decimalCol = i
		case "Keyword":
			keywordCol = i
		}
	}
	if decimalCol < 0 || keywordCol < 0 {
		return nil, ErrProtocolHeader
	}

	table := make(ProtocolTable)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.WithError(err).Warn("protocol table: skipping malformed row")
			metrics.ProtocolRowsSkipped.WithLabelValues("malformed").Inc()
			continue
		}
		if len(row) <= decimalCol || len(row) <= keywordCol {
			log.WithField("row", row).Warn("protocol table: skipping short row")
			metrics.ProtocolRowsSkipped.WithLabelValues("malformed").Inc()
			continue
		}

		decimal := strings.TrimSpace(row[decimalCol])
		keyword := strings.TrimSpace(row[keywordCol])

		if strings.Contains(decimal, "-") {
			// number ranges cannot be keyed individually
			log.WithField("decimal", decimal).Info("protocol table: skipping row with number range")
			metrics.ProtocolRowsSkipped.WithLabelValues("range").Inc()
			continue
		}
		number, err := strconv.Atoi(decimal)
		if err != nil {
			log.WithField("decimal", decimal).Info("protocol table: skipping row with invalid decimal")
			metrics.ProtocolRowsSkipped.WithLabelValues("parse").Inc()
			continue
		}
		if keyword == "" {
			log.WithField("decimal", decimal).Info("protocol table: skipping row with empty keyword")
			metrics.ProtocolRowsSkipped.WithLabelValues("empty").Inc()
			continue
		}
		table[number] = strings.ToLower(keyword)
	}
	return table, nil
}
