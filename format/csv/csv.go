// Package csv serializes the final report as the two-section CSV layout:
// tag counts, a blank row, then port/protocol combination counts.
package csv

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/bahetianjali/flow-low-parser/format"
	"github.com/bahetianjali/flow-low-parser/report"
)

type CSVDriver struct {
}

func (d *CSVDriver) Prepare() error {
	return nil
}

func (d *CSVDriver) Init() error {
	return nil
}

func (d *CSVDriver) Format(data interface{}) ([]byte, []byte, error) {
	r, ok := data.(*report.Report)
	if !ok {
		return nil, nil, format.ErrNoSerializer
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// the trailing spaces in the section titles are part of the layout
	w.Write([]string{"Tag Counts: "})
	w.Write([]string{"Tag", "Count"})
	for _, row := range r.SortedTagCounts() {
		w.Write([]string{row.Tag, strconv.FormatUint(row.Count, 10)})
	}

	w.Write([]string{})

	w.Write([]string{"Port/Protocol Combination Counts: "})
	w.Write([]string{"Port", "Protocol", "Count"})
	for _, row := range r.SortedPortProtocolCounts() {
		w.Write([]string{strconv.Itoa(row.Port), row.Protocol, strconv.FormatUint(row.Count, 10)})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, nil, err
	}
	return nil, buf.Bytes(), nil
}

func init() {
	d := &CSVDriver{}
	format.RegisterFormatDriver("csv", d)
}
