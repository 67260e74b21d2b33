package model

import (
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/types"
)

// textColumn is the single column name of a text envelope, kept identical
// to the historical storage format so existing documents stay readable.
const textColumn = "Plugin Output"

// Envelope is the normalized form of one plugin rendering. Exactly one
// shape is populated, selected by Kind:
//   - graph: Graph holds the plugin's DOT rendering
//   - text: Columns/Rows hold a single preformatted cell with the raw text
//   - structured: Data holds the plugin's own decoded row-oriented output
type Envelope struct {
	Kind    types.EnvelopeKind `json:"kind"`
	Columns []string           `json:"columns,omitempty"`
	Rows    [][]string         `json:"rows,omitempty"`
	Graph   string             `json:"graph,omitempty"`
	Data    map[string]any     `json:"data,omitempty"`
}

// NewGraphEnvelope wraps a DOT graph rendering
func NewGraphEnvelope(dot string) *Envelope {
	return &Envelope{
		Kind:  types.EnvelopeGraph,
		Graph: dot,
	}
}

// NewTextEnvelope wraps a raw text rendering as a single preformatted cell,
// so all output styles share one tabular shape the store can persist
// uniformly.
func NewTextEnvelope(raw string) *Envelope {
	return &Envelope{
		Kind:    types.EnvelopeText,
		Columns: []string{textColumn},
		Rows:    [][]string{{fmt.Sprintf("<pre>\n%s\n</pre>", raw)}},
	}
}

// NewStructuredEnvelope decodes a plugin's JSON rendering into a generic
// field mapping. No schema is imposed beyond being decodable.
func NewStructuredEnvelope(raw []byte) (*Envelope, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, goerr.Wrap(err, "failed to decode structured plugin output")
	}
	return &Envelope{
		Kind: types.EnvelopeStructured,
		Data: data,
	}, nil
}

// Encode serializes the envelope for document storage
func (e *Envelope) Encode() (string, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode envelope")
	}
	return string(raw), nil
}

// DecodeEnvelope restores an envelope serialized by Encode
func DecodeEnvelope(raw string) (*Envelope, error) {
	if raw == "" {
		return nil, nil
	}
	var e Envelope
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, goerr.Wrap(err, "failed to decode envelope")
	}
	return &e, nil
}
