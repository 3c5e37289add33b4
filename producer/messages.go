package producer

import (
	"fmt"

	"github.com/bahetianjali/flow-low-parser/decoders/flowlog"
)

// ClassifiedFlow is a valid flow record paired with its resolved protocol
// keyword and classification tag.
type ClassifiedFlow struct {
	DstPort  int
	Protocol string
	Tag      string

	Record *flowlog.Record
}

func (m *ClassifiedFlow) String() string {
	return fmt.Sprintf("dstport:%d protocol:%s tag:%s", m.DstPort, m.Protocol, m.Tag)
}
