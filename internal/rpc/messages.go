package rpc

import "github.com/RowanDark/cribdrag/internal/crib"

type XorStreamRequest struct {
	C1 string `json:"c1"`
	C2 string `json:"c2"`
}

// XorStreamResponse carries the XOR of two ciphertexts. Decoded is the
// stream read with the server's table and is empty if that failed.
type XorStreamResponse struct {
	Stream  string   `json:"stream"`
	Chunks  []string `json:"chunks"`
	Decoded string   `json:"decoded,omitempty"`
}

// DragRequest asks for a crib search. Zero MaxPositions uses the server
// default.
type DragRequest struct {
	Stream       string `json:"stream"`
	Crib         string `json:"crib"`
	MaxPositions int    `json:"max_positions,omitempty"`
	ReadableOnly bool   `json:"readable_only,omitempty"`
}

// DragResponse lists matches in ascending offset order. Positions counts
// every offset tried, including ones filtered out by ReadableOnly.
type DragResponse struct {
	SearchID  string       `json:"search_id"`
	Positions int          `json:"positions"`
	Matches   []crib.Match `json:"matches"`
}

type DecodeRequest struct {
	Bits string `json:"bits"`
}

type DecodeResponse struct {
	Text string `json:"text"`
}
