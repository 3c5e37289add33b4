package lookup

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bahetianjali/flow-low-parser/metrics"
)

// Untagged is the tag assigned to records matching no lookup entry.
const Untagged = "untagged"

// Key identifies a lookup entry by destination port and protocol keyword.
type Key struct {
	Port     int
	Protocol string
}

// Table maps (destination port, protocol keyword) to a classification tag.
// Protocol and tag are normalized to lowercase on load. Read-only after load.
type Table map[Key]string

// Tag resolves a (port, protocol) pair to its tag. Pairs without an entry
// resolve to Untagged.
func (t Table) Tag(port int, protocol string) string {
	tag, ok := t[Key{Port: port, Protocol: protocol}]
	if !ok {
		return Untagged
	}
	return tag
}

// LoadTable reads the user-supplied lookup CSV: one header row, then rows of
// exactly (dstport, protocol, tag). Row-level failures are logged and the
// row skipped; only opening or reading the file itself is fatal.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lookup table: %w", err)
	}
	defer f.Close()
	return ReadTable(f)
}

// ReadTable parses lookup rows from r. Line numbers reported in diagnostics
// are 1-based and start at 2, line 1 being the header.
func ReadTable(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	// the header is skipped by position, column names are not inspected
	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("lookup table: reading header: %w", err)
	}

	table := make(Table)
	for lineNum := 2; ; lineNum++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.WithError(err).WithField("line", lineNum).Warn("lookup table: skipping malformed row")
			metrics.LookupRowsSkipped.WithLabelValues("malformed").Inc()
			continue
		}
		if len(row) != 3 {
			log.WithFields(log.Fields{
				"line": lineNum,
				"row":  row,
			}).Warn("lookup table: incorrect number of columns")
			metrics.LookupRowsSkipped.WithLabelValues("columns").Inc()
			continue
		}

		port, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"line": lineNum,
				"row":  row,
			}).Error("lookup table: error parsing row")
			metrics.LookupRowsSkipped.WithLabelValues("parse").Inc()
			continue
		}
		if port < 0 || port > 65535 {
			log.WithFields(log.Fields{
				"line": lineNum,
				"row":  row,
			}).Warn("lookup table: invalid port number")
			metrics.LookupRowsSkipped.WithLabelValues("port").Inc()
			continue
		}

		protocol := strings.ToLower(strings.TrimSpace(row[1]))
		tag := strings.ToLower(strings.TrimSpace(row[2]))

		// duplicate keys keep the last row seen
		table[Key{Port: port, Protocol: protocol}] = tag
	}
	return table, nil
}
