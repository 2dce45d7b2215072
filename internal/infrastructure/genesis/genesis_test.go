package genesis

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/vault"
	"custodian.io/internal/infrastructure/logger"
	"custodian.io/internal/infrastructure/token"
)

var (
	owner   = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	user    = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	custody = common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0")
	asset   = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
)

const document = `
tokens:
  - address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
    symbol: TKN
    decimals: 18
    approve: true
    mints:
      "0x70997970C51812dc3A010C7d01b50e0d17dc79C8": "1000000000000000000000"
whitelist:
  - "0x5FbDB2315678afecb367f032d93F642f64180aa3"
`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(document))
	require.NoError(t, err)

	require.Len(t, doc.Tokens, 1)
	assert.Equal(t, "TKN", doc.Tokens[0].Symbol)
	assert.Equal(t, uint8(18), doc.Tokens[0].Decimals)
	assert.True(t, doc.Tokens[0].Approve)
	assert.Len(t, doc.Whitelist, 1)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("tokens:\n  - address: x\n    supply: 10\n"))
	assert.Error(t, err)
}

func TestDecode_Empty(t *testing.T) {
	doc, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, doc.Tokens)
}

func TestLoadAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o600))

	doc, err := Load(path)
	require.NoError(t, err)

	log := logger.Nop()
	registry := token.NewRegistry(custody, log)
	v := vault.New(owner, registry, nil, log)

	require.NoError(t, Apply(context.Background(), doc, registry, v, owner, log))

	assert.True(t, v.IsWhitelisted(asset))
	held, err := registry.BalanceOf(asset, user)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000", held.Dec())
	allowance, err := registry.Allowance(asset, user, custody)
	require.NoError(t, err)
	assert.Equal(t, held.Dec(), allowance.Dec())
}

func TestApply_Errors(t *testing.T) {
	log := logger.Nop()

	tests := []struct {
		name    string
		doc     Document
		wantErr error
	}{
		{
			name:    "bad token address",
			doc:     Document{Tokens: []Token{{Address: "nope", Symbol: "X"}}},
			wantErr: entity.ErrInvalidAddress,
		},
		{
			name: "bad mint amount",
			doc: Document{Tokens: []Token{{
				Address: asset.Hex(),
				Symbol:  "X",
				Mints:   map[string]string{user.Hex(): "lots"},
			}}},
			wantErr: entity.ErrInvalidAmountFormat,
		},
		{
			name:    "whitelist zero address",
			doc:     Document{Whitelist: []string{entity.ZeroAddress.Hex()}},
			wantErr: entity.ErrZeroAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := token.NewRegistry(custody, log)
			v := vault.New(owner, registry, nil, log)
			err := Apply(context.Background(), &tt.doc, registry, v, owner, log)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApply_NonOwnerCannotWhitelist(t *testing.T) {
	log := logger.Nop()
	registry := token.NewRegistry(custody, log)
	v := vault.New(owner, registry, nil, log)

	err := Apply(context.Background(), &Document{Whitelist: []string{asset.Hex()}}, registry, v, user, log)
	assert.ErrorIs(t, err, entity.ErrNotAdministrator)
}
