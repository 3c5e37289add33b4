package producer

import (
	"fmt"

	"github.com/bahetianjali/flow-low-parser/decoders/flowlog"
	"github.com/bahetianjali/flow-low-parser/lookup"
)

// ClassifierProducer validates each line against the flow log layout, then
// resolves the protocol keyword and classification tag from the reference
// tables. Both tables are read-only dependencies supplied at construction.
type ClassifierProducer struct {
	protocols lookup.ProtocolTable
	table     lookup.Table
}

// NewClassifierProducer creates a producer bound to the two lookup tables.
func NewClassifierProducer(protocols lookup.ProtocolTable, table lookup.Table) *ClassifierProducer {
	return &ClassifierProducer{
		protocols: protocols,
		table:     table,
	}
}

// Produce decodes one raw line and returns a single ClassifiedFlow, or the
// validation error explaining the rejection.
func (p *ClassifierProducer) Produce(msg interface{}, args *ProduceArgs) ([]ProducerMessage, error) {
	line, ok := msg.(string)
	if !ok {
		return nil, fmt.Errorf("message is not a string")
	}

	rec, err := flowlog.DecodeRecord(line, p.protocols)
	if err != nil {
		return nil, err
	}

	// validation guarantees the protocol number is known at this point,
	// the fallback only covers table mutations that cannot happen today
	protocol := p.protocols.Name(rec.Protocol)
	tag := p.table.Tag(rec.DstPort, protocol)

	return []ProducerMessage{&ClassifiedFlow{
		DstPort:  rec.DstPort,
		Protocol: protocol,
		Tag:      tag,
		Record:   rec,
	}}, nil
}

func (p *ClassifierProducer) Close() {}
