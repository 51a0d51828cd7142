package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// CardDetails is what the gateway needs to issue a token. It only lives for
// the duration of the tokenization call.
type CardDetails struct {
	Number      string
	CVV         string
	HolderName  string
	ExpiryMonth int
	ExpiryYear  int
}

// Tokenizer exchanges card details for an opaque gateway token.
type Tokenizer interface {
	Tokenize(ctx context.Context, card CardDetails) (string, error)
}

// SimulatedTokenizer issues tok_<32 hex> tokens without a real gateway.
type SimulatedTokenizer struct {
	random io.Reader
}

// NewSimulatedTokenizer returns a tokenizer backed by crypto/rand.
func NewSimulatedTokenizer() *SimulatedTokenizer {
	return &SimulatedTokenizer{random: rand.Reader}
}

// Tokenize returns a fresh token, or ctx's error if it is already done.
func (t *SimulatedTokenizer) Tokenize(ctx context.Context, _ CardDetails) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf [16]byte
	if _, err := io.ReadFull(t.random, buf[:]); err != nil {
		return "", fmt.Errorf("read token bytes: %w", err)
	}
	return "tok_" + hex.EncodeToString(buf[:]), nil
}
