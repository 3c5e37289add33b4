// Package utils drives the batch pipeline: stream the flow log, classify
// each line, aggregate counts, and emit the report.
package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bahetianjali/flow-low-parser/decoders/flowlog"
	"github.com/bahetianjali/flow-low-parser/format"
	"github.com/bahetianjali/flow-low-parser/metrics"
	"github.com/bahetianjali/flow-low-parser/producer"
	"github.com/bahetianjali/flow-low-parser/report"
	"github.com/bahetianjali/flow-low-parser/transport"
	"github.com/bahetianjali/flow-low-parser/utils/debug"
)

// maxLineSize bounds a single flow log line. Longer lines are rejected as
// malformed records, never aborting the run.
const maxLineSize = 1024 * 1024

var errLineTooLong = errors.New("line exceeds maximum length")

// PipeConfig wires producer, formatter, and transport dependencies.
type PipeConfig struct {
	Format    format.FormatInterface
	Transport transport.TransportInterface
	Producer  producer.ProducerInterface

	// Warning throttle for invalid records; zero values disable muting.
	ErrorsMax      int
	ErrorsInterval time.Duration
}

// BatchPipe consumes a flow log once and owns the aggregates for the run.
type BatchPipe struct {
	producer  producer.ProducerInterface
	format    format.FormatInterface
	transport transport.TransportInterface

	agg  *report.Aggregator
	mute *BatchMute
}

// NewBatchPipe creates a pipe with empty aggregates.
func NewBatchPipe(cfg *PipeConfig) *BatchPipe {
	return &BatchPipe{
		producer:  cfg.Producer,
		format:    cfg.Format,
		transport: cfg.Transport,
		agg:       report.NewAggregator(),
		mute:      NewBatchMute(cfg.ErrorsInterval, cfg.ErrorsMax),
	}
}

// ProcessFile streams one flow log file through the pipe. Failure to open
// the file is fatal for the run and returned to the caller.
func (p *BatchPipe) ProcessFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("flow log: %w", err)
	}
	defer f.Close()
	return p.Process(f)
}

// Process reads r line by line, classifying and counting each record.
// Invalid records are logged and skipped, never propagated; only reading
// r itself can fail the run.
func (p *BatchPipe) Process(r io.Reader) error {
	br := bufio.NewReaderSize(r, 64*1024)

	for lineNum := 1; ; lineNum++ {
		line, tooLong, err := readLine(br)
		if err != nil && err != io.EOF {
			return fmt.Errorf("flow log: %w", err)
		}
		atEOF := err == io.EOF
		if atEOF && line == "" && !tooLong {
			break
		}
		metrics.LinesProcessed.Inc()

		if tooLong {
			p.reject(lineNum, errLineTooLong)
		} else if flowMessageSet, err := p.producer.Produce(line, &producer.ProduceArgs{LineNumber: lineNum}); err != nil {
			p.reject(lineNum, err)
		} else {
			for _, msg := range flowMessageSet {
				flow, ok := msg.(*producer.ClassifiedFlow)
				if !ok {
					continue
				}
				p.agg.Add(flow.Tag, flow.DstPort, flow.Protocol)
				metrics.RecordsClassified.WithLabelValues(flow.Tag).Inc()
			}
		}

		if atEOF {
			break
		}
	}
	return nil
}

// readLine returns the next line without its terminator. A line longer than
// maxLineSize is discarded up to its newline and reported through the
// boolean so the caller can count it as one malformed record.
func readLine(br *bufio.Reader) (string, bool, error) {
	var buf []byte
	for {
		frag, err := br.ReadSlice('\n')
		buf = append(buf, frag...)
		if err == bufio.ErrBufferFull {
			if len(buf) <= maxLineSize {
				continue
			}
			for err == bufio.ErrBufferFull {
				_, err = br.ReadSlice('\n')
			}
			return "", true, err
		}
		line := strings.TrimSuffix(string(buf), "\n")
		line = strings.TrimSuffix(line, "\r")
		return line, false, err
	}
}

func (p *BatchPipe) reject(lineNum int, err error) {
	reason := reasonOf(err)
	metrics.RecordsInvalid.WithLabelValues(reason).Inc()

	muted, skipped := p.mute.Increment()
	if muted && skipped == 0 {
		log.Warn("too many invalid records, muting")
		return
	}
	if muted {
		return
	}
	if skipped > 0 {
		log.WithField("count", skipped).Warn("skipped invalid record warnings")
	}

	logger := log.WithField("line", lineNum)
	if errors.Is(err, debug.PanicError) {
		var pErrMsg *debug.PanicErrorMessage
		if errors.As(err, &pErrMsg) {
			logger = logger.WithField("stacktrace", string(pErrMsg.Stacktrace))
		}
	}
	logger.Warnf("flow log error: %s", reason)
}

// reasonOf extracts the rule-level reason, falling back to the full error
// text for panics and other unexpected failures.
func reasonOf(err error) string {
	var recErr *flowlog.RecordError
	if errors.As(err, &recErr) {
		return recErr.Reason
	}
	return err.Error()
}

// Snapshot returns the aggregates accumulated so far.
func (p *BatchPipe) Snapshot() *report.Report {
	return p.agg.Snapshot()
}

// Finish serializes the aggregates and sends them through the transport.
func (p *BatchPipe) Finish() error {
	key, data, err := p.format.Format(p.agg.Snapshot())
	if err != nil {
		return err
	}
	return p.transport.Send(key, data)
}

// Close closes the producer.
func (p *BatchPipe) Close() {
	p.producer.Close()
}
