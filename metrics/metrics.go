// Package metrics instruments the run with Prometheus counters. The tool is
// a batch job, so instead of a scrape endpoint the counters can be pushed to
// a Pushgateway once the run completes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const NAMESPACE = "flowparser"

var (
	LinesProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:      "flow_lines_count",
			Help:      "Flow log lines read.",
			Namespace: NAMESPACE,
		},
	)
	RecordsInvalid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "flow_records_invalid_count",
			Help:      "Flow log records rejected by validation.",
			Namespace: NAMESPACE},
		[]string{"reason"},
	)
	RecordsClassified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "flow_records_classified_count",
			Help:      "Valid flow log records per resolved tag.",
			Namespace: NAMESPACE},
		[]string{"tag"},
	)
	ProtocolRowsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "protocol_table_rows_skipped_count",
			Help:      "Protocol reference rows dropped during load.",
			Namespace: NAMESPACE},
		[]string{"reason"},
	)
	LookupRowsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "lookup_table_rows_skipped_count",
			Help:      "Lookup table rows dropped during load.",
			Namespace: NAMESPACE},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(LinesProcessed)
	prometheus.MustRegister(RecordsInvalid)
	prometheus.MustRegister(RecordsClassified)
	prometheus.MustRegister(ProtocolRowsSkipped)
	prometheus.MustRegister(LookupRowsSkipped)
}
