package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/expfmt"
)

// Push sends the run counters to a Pushgateway. Called once after the
// report is written; the process has no scrape endpoint.
func Push(uri string) error {
	err := push.New(uri, "flowparser").
		Gatherer(prometheus.DefaultGatherer).
		Format(expfmt.NewFormat(expfmt.TypeTextPlain)).
		Push()
	if err != nil {
		return fmt.Errorf("could not push metrics, %w", err)
	}
	return nil
}
