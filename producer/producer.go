// Package producer turns raw flow log lines into classified flow messages.
package producer

// ProducerMessage is an empty interface for messages emitted by producers.
type ProducerMessage interface{}

// ProduceArgs carries per-line context for diagnostics.
type ProduceArgs struct {
	// LineNumber is the 1-based position of the line in the source file.
	LineNumber int
}

// ProducerInterface decodes and classifies one raw line. Implementations are
// chained by wrappers (panic interception, metrics).
type ProducerInterface interface {
	Produce(msg interface{}, args *ProduceArgs) ([]ProducerMessage, error)
	Close()
}
