package debug

import (
	"fmt"
	"runtime/debug"

	"github.com/bahetianjali/flow-low-parser/producer"
)

// PanicProducerWrapper converts panics during Produce into errors carrying
// the offending line.
type PanicProducerWrapper struct {
	wrapped producer.ProducerInterface
}

func (p *PanicProducerWrapper) Produce(msg interface{}, args *producer.ProduceArgs) (flowMessageSet []producer.ProducerMessage, err error) {
	defer func() {
		if pErr := recover(); pErr != nil {
			err = &PanicErrorMessage{Msg: msg, Inner: fmt.Sprintf("%v", pErr), Stacktrace: debug.Stack()}
		}
	}()

	flowMessageSet, err = p.wrapped.Produce(msg, args)
	return flowMessageSet, err
}

func (p *PanicProducerWrapper) Close() {
	p.wrapped.Close()
}

// WrapPanicProducer wraps a producer to recover panics as errors.
func WrapPanicProducer(wrapped producer.ProducerInterface) producer.ProducerInterface {
	return &PanicProducerWrapper{
		wrapped: wrapped,
	}
}
