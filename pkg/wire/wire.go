// Package wire holds the JSON payloads exchanged with the world
// service: snapshot rows, stream frames and the request/response bodies
// of the position, recall and reset endpoints.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TypeReset marks the stream frame that instructs a full
// re-synchronization.
const TypeReset = "RESET"

// ErrDiscard is returned for frames that should be silently dropped:
// malformed JSON, or update frames missing a required field. The stream
// stays open; only the offending frame is lost.
var ErrDiscard = errors.New("frame discarded")

// SnapshotRow is one roster entry from GET /v1/snapshot. Coordinates
// and zone are optional; absence means free-roaming.
type SnapshotRow struct {
	ID   int      `json:"id"`
	Name string   `json:"name,omitempty"`
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
	Zone string   `json:"zone,omitempty"`
}

// HasCoords reports whether the row carries an explicit position.
func (r SnapshotRow) HasCoords() bool {
	return r.X != nil && r.Y != nil
}

// Update is an incremental change to one NPC's action and, optionally,
// zone. It doubles as the wire encoding worldd broadcasts.
type Update struct {
	ID     int    `json:"id"`
	Name   string `json:"name,omitempty"`
	Action string `json:"action"`
	Zone   string `json:"zone,omitempty"`
}

// ResetFrame is the frame worldd broadcasts to clear all clients.
type ResetFrame struct {
	Type string `json:"type"`
}

// NewResetFrame builds the reset broadcast payload.
func NewResetFrame() ResetFrame {
	return ResetFrame{Type: TypeReset}
}

// Frame is the decoded form of one inbound stream message: either a
// reset instruction or a single NPC update.
type Frame struct {
	Reset  bool
	Update Update
}

type envelope struct {
	Type   string `json:"type"`
	ID     *int   `json:"id"`
	Name   string `json:"name"`
	Action string `json:"action"`
	Zone   string `json:"zone"`
}

// DecodeFrame validates one raw stream message at the boundary.
// Malformed payloads and updates missing an identifier or action label
// return ErrDiscard so the caller can log and drop them without
// tearing down the stream.
func DecodeFrame(data []byte) (Frame, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrDiscard, err)
	}

	if env.Type == TypeReset {
		return Frame{Reset: true}, nil
	}

	if env.ID == nil {
		return Frame{}, fmt.Errorf("%w: missing id", ErrDiscard)
	}
	if env.Action == "" {
		return Frame{}, fmt.Errorf("%w: missing action", ErrDiscard)
	}

	return Frame{Update: Update{
		ID:     *env.ID,
		Name:   env.Name,
		Action: env.Action,
		Zone:   env.Zone,
	}}, nil
}

// PositionRequest is the body of POST /v1/position.
type PositionRequest struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// RecallResponse is the body of GET /v1/recall.
type RecallResponse struct {
	Memories []string `json:"memories"`
}

// ErrorResponse is the JSON error body returned by worldd handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}
