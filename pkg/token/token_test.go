package token

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathAddressSubstitutesWrappedNative(t *testing.T) {
	wrapped := common.HexToAddress("0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701")

	native := Token{Kind: Native, Symbol: "MON", Decimals: 18}
	assert.Equal(t, wrapped, native.PathAddress(wrapped))

	usdc := Token{Kind: Contract, Symbol: "USDC", Address: common.HexToAddress("0xf817257fed379853cDe0fa4F97AB987181B1E5Ea")}
	assert.Equal(t, usdc.Address, usdc.PathAddress(wrapped))
}

func TestFind(t *testing.T) {
	list := DefaultList()

	mon, err := Find(list, "mon")
	require.NoError(t, err)
	assert.Equal(t, "MON", mon.Symbol)
	assert.True(t, mon.IsNative())

	usdc, err := Find(list, "USDC")
	require.NoError(t, err)
	assert.Equal(t, uint8(6), usdc.Decimals)
	assert.False(t, usdc.IsNative())

	_, err = Find(list, "DOGE")
	assert.Error(t, err)
}

func TestDefaultListHasSingleNative(t *testing.T) {
	natives := 0
	for _, tok := range DefaultList() {
		if tok.IsNative() {
			natives++
			assert.Equal(t, common.Address{}, tok.Address, "native token must carry no contract address")
		}
	}
	assert.Equal(t, 1, natives)
}
