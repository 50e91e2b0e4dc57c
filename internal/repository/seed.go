package repository

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/baharkarakas/payment-authorizer/internal/models"
)

// Seed is the fixture file format:
//
//	merchants:
//	  - name: Corner Shop
//	    token: tok-123
//	accounts:
//	  - bank: First Bank
//	    account_number: "4111111111111111"
//	    kind: credit
//	    credit_limit: 500
//	    credit_used: 100
type Seed struct {
	Merchants []models.Merchant `yaml:"merchants"`
	Accounts  []models.Account  `yaml:"accounts"`
}

func LoadSeed(path string) (Seed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, err
	}
	return ParseSeed(b)
}

func ParseSeed(b []byte) (Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	for i, a := range s.Accounts {
		kind, ok := models.ParseCardKind(string(a.Kind))
		if !ok {
			return Seed{}, fmt.Errorf("seed account %s/%s: unknown kind %q", a.Bank, a.AccountNumber, a.Kind)
		}
		s.Accounts[i].Kind = kind
	}
	for i := range s.Merchants {
		if s.Merchants[i].ID == "" {
			s.Merchants[i].ID = uuid.NewString()
		}
	}
	return s, nil
}

func (s Seed) Apply(ctx context.Context, dst Seeder) error {
	for _, m := range s.Merchants {
		if err := dst.PutMerchant(ctx, m); err != nil {
			return fmt.Errorf("seed merchant %s: %w", m.Name, err)
		}
	}
	for _, a := range s.Accounts {
		if err := dst.PutAccount(ctx, a); err != nil {
			return fmt.Errorf("seed account %s/%s: %w", a.Bank, models.Last4(a.AccountNumber), err)
		}
	}
	return nil
}
