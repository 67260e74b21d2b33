package volatility

import (
	"github.com/volutil-lab/volutil/pkg/domain/model"
	"github.com/volutil-lab/volutil/pkg/domain/types"
)

// renderFor maps an envelope shape to the rendering asked of the backend
func renderFor(kind types.EnvelopeKind) RenderMode {
	switch kind {
	case types.EnvelopeGraph:
		return RenderDot
	case types.EnvelopeText:
		return RenderText
	default:
		return RenderJSON
	}
}

// adaptOutput converts one raw plugin rendering into its envelope. The raw
// bytes are consumed exactly once; changing shape means re-running the
// plugin, which the engine never does.
func adaptOutput(kind types.EnvelopeKind, raw []byte) (*model.Envelope, error) {
	switch kind {
	case types.EnvelopeGraph:
		return model.NewGraphEnvelope(string(raw)), nil
	case types.EnvelopeText:
		return model.NewTextEnvelope(string(raw)), nil
	default:
		return model.NewStructuredEnvelope(raw)
	}
}
