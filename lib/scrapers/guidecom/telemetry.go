package guidecom

import (
	"go.opentelemetry.io/otel"

	"shopguide-backend/lib/restyutil"
)

var tracer = otel.Tracer("scrapers/guidecom")

// SetRestyInstrumentOutput dumps full HTTP transcripts of this
// client's session to the given output. Used when debugging selector
// drift against live markup.
func (c *Client) SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	restyutil.AttachOutput(c.http, output)
}
