// Package checkout builds simulated bank-transfer and USSD payment
// instructions for a plan installment.
package checkout

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("checkout amount must be positive")

const (
	accountFloor = 1_000_000_000
	accountSpan  = 9_000_000_000
)

// NumberSource returns a uniform value in [0, n).
type NumberSource interface {
	Int63n(n int64) int64
}

// CryptoSource draws from crypto/rand.
type CryptoSource struct{}

func (CryptoSource) Int63n(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		panic(fmt.Sprintf("checkout: crypto/rand unavailable: %v", err))
	}
	return v.Int64()
}

type Instructions struct {
	PlanID         string
	Reference      string
	VirtualAccount string
	BankName       string
	USSDCode       string
	Amount         decimal.Decimal
	ExpiresAt      time.Time
}

type Generator struct {
	bankName string
	bankCode string
	ttl      time.Duration
	source   NumberSource
}

// NewGenerator returns a Generator; a nil source falls back to CryptoSource.
func NewGenerator(bankName, bankCode string, ttl time.Duration, source NumberSource) *Generator {
	if source == nil {
		source = CryptoSource{}
	}
	return &Generator{
		bankName: bankName,
		bankCode: bankCode,
		ttl:      ttl,
		source:   source,
	}
}

// Instructions issues a fresh virtual account and USSD string for amount.
// The USSD string carries whole naira, rounded up.
func (g *Generator) Instructions(planID string, amount decimal.Decimal, now time.Time) (*Instructions, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	account := g.virtualAccount()

	return &Instructions{
		PlanID:         planID,
		Reference:      uuid.New().String(),
		VirtualAccount: account,
		BankName:       g.bankName,
		USSDCode:       fmt.Sprintf("*%s*000*%s*%s#", g.bankCode, account, amount.Ceil().String()),
		Amount:         amount,
		ExpiresAt:      now.Add(g.ttl),
	}, nil
}

func (g *Generator) virtualAccount() string {
	return fmt.Sprintf("%010d", accountFloor+g.source.Int63n(accountSpan))
}
