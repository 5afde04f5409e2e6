package chain

import (
	"context"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConfigEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.Enabled())

	cfg.RPCURL = "https://rpc.sepolia.mantle.xyz"
	assert.False(t, cfg.Enabled())

	cfg.PaymentToken = "0x1111111111111111111111111111111111111111"
	cfg.AssetVault = "0x2222222222222222222222222222222222222222"
	assert.True(t, cfg.Enabled())
}

func TestNewReturnsDisabledBridgeWithoutRPC(t *testing.T) {
	bridge, err := New(&Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, bridge.Enabled())

	ctx := context.Background()

	_, err = bridge.PaymentBalance(ctx, "0x1111111111111111111111111111111111111111")
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = bridge.Invest(ctx, 1, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrDisabled)

	_, _, err = bridge.RegisterAsset(ctx, "Test", decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestWeiConversion(t *testing.T) {
	one := decimal.NewFromInt(1)
	wei := ToWei(one)
	assert.Equal(t, "1000000000000000000", wei.String())
	assert.True(t, FromWei(wei).Equal(one))

	half := decimal.NewFromFloat(0.5)
	assert.Equal(t, "500000000000000000", ToWei(half).String())

	// Sub-wei precision truncates rather than rounding up
	tiny := decimal.RequireFromString("0.0000000000000000015")
	assert.Equal(t, big.NewInt(1), ToWei(tiny))
}
