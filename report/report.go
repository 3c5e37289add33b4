// Package report accumulates classification counts over one run and exposes
// them as an ordered snapshot for serialization.
package report

import (
	"sort"
)

// PortProtocolKey identifies a (destination port, protocol keyword) pair.
type PortProtocolKey struct {
	Port     int
	Protocol string
}

// Aggregator owns the two count maps. It is mutated by a single control flow
// and never accessed concurrently.
type Aggregator struct {
	tagCounts          map[string]uint64
	portProtocolCounts map[PortProtocolKey]uint64
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		tagCounts:          make(map[string]uint64),
		portProtocolCounts: make(map[PortProtocolKey]uint64),
	}
}

// Add counts one valid record under its tag and (port, protocol) pair.
func (a *Aggregator) Add(tag string, port int, protocol string) {
	a.tagCounts[tag]++
	a.portProtocolCounts[PortProtocolKey{Port: port, Protocol: protocol}]++
}

// Snapshot copies the current counts into a Report.
func (a *Aggregator) Snapshot() *Report {
	r := &Report{
		TagCounts:          make(map[string]uint64, len(a.tagCounts)),
		PortProtocolCounts: make(map[PortProtocolKey]uint64, len(a.portProtocolCounts)),
	}
	for tag, count := range a.tagCounts {
		r.TagCounts[tag] = count
	}
	for key, count := range a.portProtocolCounts {
		r.PortProtocolCounts[key] = count
	}
	return r
}

// Report is the final aggregate of one run.
type Report struct {
	TagCounts          map[string]uint64
	PortProtocolCounts map[PortProtocolKey]uint64
}

// TagCount is one row of the tag section.
type TagCount struct {
	Tag   string `json:"tag"`
	Count uint64 `json:"count"`
}

// PortProtocolCount is one row of the port/protocol section.
type PortProtocolCount struct {
	Port     int    `json:"port"`
	Protocol string `json:"protocol"`
	Count    uint64 `json:"count"`
}

// SortedTagCounts returns the tag rows sorted lexicographically. The output
// contract does not require an order; sorting keeps runs diffable.
func (r *Report) SortedTagCounts() []TagCount {
	rows := make([]TagCount, 0, len(r.TagCounts))
	for tag, count := range r.TagCounts {
		rows = append(rows, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Tag < rows[j].Tag
	})
	return rows
}

// SortedPortProtocolCounts returns the pair rows sorted by port, then
// protocol.
func (r *Report) SortedPortProtocolCounts() []PortProtocolCount {
	rows := make([]PortProtocolCount, 0, len(r.PortProtocolCounts))
	for key, count := range r.PortProtocolCounts {
		rows = append(rows, PortProtocolCount{Port: key.Port, Protocol: key.Protocol, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Port != rows[j].Port {
			return rows[i].Port < rows[j].Port
		}
		return rows[i].Protocol < rows[j].Protocol
	})
	return rows
}
