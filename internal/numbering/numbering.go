// Package numbering generates the human-readable codes for rental requests
// (SOL-YYYYMMDD-NNNN) and payment transactions (TRX-YYYYMMDD-XXXXXXXX).
package numbering

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	requestPrefix     = "SOL"
	transactionPrefix = "TRX"
	dateLayout        = "20060102"

	requestSpace     = 10000
	requestDrawLimit = 60000
)

// Generator produces request and transaction codes from a clock and a
// random source. The zero value is not usable; use New or NewWith.
type Generator struct {
	now    func() time.Time
	random io.Reader
}

// New returns a Generator using the wall clock and crypto/rand.
func New() *Generator {
	return NewWith(time.Now, rand.Reader)
}

// NewWith returns a Generator with an injected clock and random source.
func NewWith(now func() time.Time, random io.Reader) *Generator {
	return &Generator{now: now, random: random}
}

// RequestCode returns SOL-<YYYYMMDD>-<4 decimal digits>.
func (g *Generator) RequestCode() (string, error) {
	n, err := g.uniformDigits()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%04d", requestPrefix, g.now().Format(dateLayout), n), nil
}

// uniformDigits draws a value in [0, 10000). Draws at or above
// requestDrawLimit are discarded so every suffix is equally likely.
func (g *Generator) uniformDigits() (uint16, error) {
	var buf [2]byte
	for {
		if _, err := io.ReadFull(g.random, buf[:]); err != nil {
			return 0, fmt.Errorf("read random digits: %w", err)
		}
		if v := binary.BigEndian.Uint16(buf[:]); v < requestDrawLimit {
			return v % requestSpace, nil
		}
	}
}

// TransactionCode returns TRX-<YYYYMMDD>-<8 uppercase hex chars>.
func (g *Generator) TransactionCode() (string, error) {
	var buf [4]byte
	if _, err := io.ReadFull(g.random, buf[:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", transactionPrefix, g.now().Format(dateLayout), strings.ToUpper(hex.EncodeToString(buf[:]))), nil
}
