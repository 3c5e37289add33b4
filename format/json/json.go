// Package json serializes the final report as a JSON document, for
// consumers that do not want the CSV layout.
package json

import (
	"encoding/json"

	"github.com/bahetianjali/flow-low-parser/format"
	"github.com/bahetianjali/flow-low-parser/report"
)

type JSONDriver struct {
}

func (d *JSONDriver) Prepare() error {
	return nil
}

func (d *JSONDriver) Init() error {
	return nil
}

func (d *JSONDriver) Format(data interface{}) ([]byte, []byte, error) {
	r, ok := data.(*report.Report)
	if !ok {
		return nil, nil, format.ErrNoSerializer
	}

	doc := struct {
		TagCounts          []report.TagCount          `json:"tag_counts"`
		PortProtocolCounts []report.PortProtocolCount `json:"port_protocol_counts"`
	}{
		TagCounts:          r.SortedTagCounts(),
		PortProtocolCounts: r.SortedPortProtocolCounts(),
	}

	out, err := json.Marshal(doc)
	return nil, out, err
}

func init() {
	d := &JSONDriver{}
	format.RegisterFormatDriver("json", d)
}
