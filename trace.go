package timewarp

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'timewarp'
func tracer() tracing.Trace {
	return tracing.Select("timewarp")
}
