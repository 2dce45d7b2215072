// Package genesis seeds a freshly started vault from a YAML document:
// tokens to register in the in-memory registry, their initial mints and the
// assets the owner whitelists at boot.
package genesis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
	"custodian.io/internal/infrastructure/logger"
	"custodian.io/internal/infrastructure/token"
)

// Token describes one fungible token to register
type Token struct {
	Address  string            `yaml:"address"`
	Symbol   string            `yaml:"symbol"`
	Decimals uint8             `yaml:"decimals"`
	Mints    map[string]string `yaml:"mints"`
	// Approve grants the custody account an allowance equal to each mint
	Approve bool `yaml:"approve"`
}

// Document is the root of a genesis file
type Document struct {
	Tokens    []Token  `yaml:"tokens"`
	Whitelist []string `yaml:"whitelist"`
}

// Load reads and decodes the genesis file at path
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis file: %w", err)
	}
	return Decode(bytes.NewReader(raw))
}

// Decode parses a genesis document, rejecting unknown fields
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &doc, nil
		}
		return nil, fmt.Errorf("failed to decode genesis file: %w", err)
	}
	return &doc, nil
}

// Apply registers and mints the document's tokens, then whitelists its
// assets on behalf of owner.
func Apply(ctx context.Context, doc *Document, registry *token.Registry, ledger port.Ledger, owner entity.Address, log logger.Logger) error {
	for _, t := range doc.Tokens {
		asset, err := entity.ParseAddress(t.Address)
		if err != nil {
			return fmt.Errorf("token %q: %w", t.Address, err)
		}
		if err := registry.Register(asset, t.Symbol, t.Decimals); err != nil {
			return fmt.Errorf("token %s: %w", t.Symbol, err)
		}

		accounts := make([]string, 0, len(t.Mints))
		for account := range t.Mints {
			accounts = append(accounts, account)
		}
		sort.Strings(accounts)

		for _, account := range accounts {
			holder, err := entity.ParseAddress(account)
			if err != nil {
				return fmt.Errorf("token %s mint to %q: %w", t.Symbol, account, err)
			}
			amount, err := entity.ParseAmount(t.Mints[account])
			if err != nil {
				return fmt.Errorf("token %s mint to %s: %w", t.Symbol, account, err)
			}
			if err := registry.Mint(asset, holder, amount); err != nil {
				return fmt.Errorf("token %s mint to %s: %w", t.Symbol, account, err)
			}
			if t.Approve {
				if err := registry.Approve(asset, holder, registry.Custody(), amount); err != nil {
					return fmt.Errorf("token %s approve for %s: %w", t.Symbol, account, err)
				}
			}
		}

		log.LogInfo(ctx, "Genesis token registered",
			"asset", asset.Hex(),
			"symbol", t.Symbol,
			"decimals", t.Decimals,
			"holders", len(accounts))
	}

	for _, s := range doc.Whitelist {
		asset, err := entity.ParseAddress(s)
		if err != nil {
			return fmt.Errorf("whitelist %q: %w", s, err)
		}
		if err := ledger.WhitelistAsset(ctx, owner, asset); err != nil {
			return fmt.Errorf("whitelist %s: %w", asset.Hex(), err)
		}
	}

	return nil
}
