package chain

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAssetRegistered(t *testing.T) {
	registry, err := abi.JSON(strings.NewReader(registryABI))
	require.NoError(t, err)

	event := registry.Events["AssetRegistered"]
	data, err := event.Inputs.NonIndexed().Pack("Treasury Fund", big.NewInt(100))
	require.NoError(t, err)

	logs := []*types.Log{
		{Topics: []common.Hash{common.HexToHash("0xdead")}},
		{
			Topics: []common.Hash{event.ID, common.BigToHash(big.NewInt(7))},
			Data:   data,
		},
	}

	decoded, err := DecodeAssetRegistered(registry, logs)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), decoded.AssetID)
	assert.Equal(t, "Treasury Fund", decoded.Name)
	assert.Equal(t, big.NewInt(100), decoded.PricePerUnit)
}

func TestDecodeAssetRegisteredMissing(t *testing.T) {
	registry, err := abi.JSON(strings.NewReader(registryABI))
	require.NoError(t, err)

	_, err = DecodeAssetRegistered(registry, nil)
	assert.Error(t, err)
}

func TestDecodePositionEvent(t *testing.T) {
	vault, err := abi.JSON(strings.NewReader(vaultABI))
	require.NoError(t, err)

	investor := common.HexToAddress("0x1111111111111111111111111111111111111111")
	units := big.NewInt(42)

	for _, name := range []string{"Invested", "Redeemed"} {
		t.Run(name, func(t *testing.T) {
			event := vault.Events[name]
			data, err := event.Inputs.NonIndexed().Pack(units)
			require.NoError(t, err)

			logs := []*types.Log{{
				Topics: []common.Hash{
					event.ID,
					common.BigToHash(big.NewInt(3)),
					common.BytesToHash(investor.Bytes()),
				},
				Data: data,
			}}

			decoded, err := DecodePositionEvent(vault, name, logs)
			require.NoError(t, err)
			assert.Equal(t, uint64(3), decoded.AssetID)
			assert.Equal(t, investor, decoded.Investor)
			assert.Equal(t, units, decoded.Units)
		})
	}
}
