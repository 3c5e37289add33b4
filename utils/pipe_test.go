package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	csvformat "github.com/bahetianjali/flow-low-parser/format/csv"
	"github.com/bahetianjali/flow-low-parser/lookup"
	"github.com/bahetianjali/flow-low-parser/producer"
	"github.com/bahetianjali/flow-low-parser/report"
	"github.com/bahetianjali/flow-low-parser/utils/debug"
)

type captureTransport struct {
	sends int
	data  []byte
}

func (c *captureTransport) Send(key, data []byte) error {
	c.sends++
	c.data = append(c.data[:0], data...)
	return nil
}

func testPipe(transport *captureTransport) *BatchPipe {
	protocols := lookup.ProtocolTable{6: "tcp"}
	table := lookup.Table{{Port: 443, Protocol: "tcp"}: "web"}

	var flowProducer producer.ProducerInterface
	flowProducer = producer.NewClassifierProducer(protocols, table)
	flowProducer = debug.WrapPanicProducer(flowProducer)

	return NewBatchPipe(&PipeConfig{
		Format:    &csvformat.CSVDriver{},
		Transport: transport,
		Producer:  flowProducer,
	})
}

const (
	validWebLine  = "2 123456789012 eni-1234abcd 10.0.1.201 198.51.100.2 1024 443 6 10 500 100 200 ACCEPT OK"
	validBareLine = "2 123456789012 eni-1234abcd 10.0.1.201 198.51.100.2 1024 8080 6 3 120 100 200 REJECT NODATA"
	shortLine     = "2 123456789012 eni-1234abcd 10.0.1.201 198.51.100.2 1024 443 6 10 500 100 200 ACCEPT"
)

func TestPipeProcess(t *testing.T) {
	tr := &captureTransport{}
	p := testPipe(tr)

	input := strings.Join([]string{
		validWebLine,
		shortLine, // 13 fields, rejected
		validBareLine,
		"garbage",
		validWebLine,
	}, "\n")
	require.NoError(t, p.Process(strings.NewReader(input)))

	r := p.Snapshot()
	assert.Equal(t, map[string]uint64{
		"web":      2,
		"untagged": 1,
	}, r.TagCounts)
	assert.Equal(t, map[report.PortProtocolKey]uint64{
		{Port: 443, Protocol: "tcp"}:  2,
		{Port: 8080, Protocol: "tcp"}: 1,
	}, r.PortProtocolCounts)
}

func TestPipeFinishSendsReport(t *testing.T) {
	tr := &captureTransport{}
	p := testPipe(tr)

	require.NoError(t, p.Process(strings.NewReader(validWebLine)))
	require.NoError(t, p.Finish())
	p.Close()

	assert.Equal(t, 1, tr.sends)
	assert.Contains(t, string(tr.data), "Tag Counts: \n")
	assert.Contains(t, string(tr.data), "web,1\n")
	assert.Contains(t, string(tr.data), "443,tcp,1\n")
}

func TestPipeInvalidOnlyInput(t *testing.T) {
	tr := &captureTransport{}
	p := testPipe(tr)

	require.NoError(t, p.Process(strings.NewReader("one\ntwo\nthree")))
	require.NoError(t, p.Finish())

	// the run still completes and writes an empty report
	assert.Equal(t, 1, tr.sends)
	assert.Empty(t, p.Snapshot().TagCounts)
}

func TestPipeOversizedLineSkipped(t *testing.T) {
	tr := &captureTransport{}
	p := testPipe(tr)

	// an oversized line is one more malformed record, not a run failure
	input := strings.Join([]string{
		validWebLine,
		strings.Repeat("x", maxLineSize*2),
		validBareLine,
	}, "\n")
	require.NoError(t, p.Process(strings.NewReader(input)))

	r := p.Snapshot()
	assert.Equal(t, map[string]uint64{
		"web":      1,
		"untagged": 1,
	}, r.TagCounts)
}

func TestPipeOversizedLastLine(t *testing.T) {
	p := testPipe(&captureTransport{})

	input := validWebLine + "\n" + strings.Repeat("x", maxLineSize*2)
	require.NoError(t, p.Process(strings.NewReader(input)))
	assert.Equal(t, uint64(1), p.Snapshot().TagCounts["web"])
}

func TestPipeIdempotentCounts(t *testing.T) {
	input := validWebLine + "\n" + validBareLine + "\n"

	first := testPipe(&captureTransport{})
	require.NoError(t, first.Process(strings.NewReader(input)))

	second := testPipe(&captureTransport{})
	require.NoError(t, second.Process(strings.NewReader(input)))

	assert.Equal(t, first.Snapshot(), second.Snapshot())
}

func TestPipeProcessFileMissing(t *testing.T) {
	p := testPipe(&captureTransport{})
	assert.Error(t, p.ProcessFile("does/not/exist.txt"))
}
