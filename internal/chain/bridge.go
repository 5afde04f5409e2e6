package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrDisabled is returned by every bridge call when no chain is configured.
var ErrDisabled = errors.New("chain bridge is disabled")

// tokenDecimals is the fixed decimal scale of the payment token and vault
// share units.
const tokenDecimals = 18

const erc20ABI = `[
	{"name":"balanceOf","type":"function","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"allowance","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"name":"exchangeMNT","type":"function","stateMutability":"payable","inputs":[],"outputs":[]}
]`

const vaultABI = `[
	{"name":"invest","type":"function","stateMutability":"nonpayable","inputs":[{"name":"assetId","type":"uint256"},{"name":"units","type":"uint256"}],"outputs":[]},
	{"name":"redeem","type":"function","stateMutability":"nonpayable","inputs":[{"name":"assetId","type":"uint256"},{"name":"units","type":"uint256"}],"outputs":[]},
	{"name":"positionOf","type":"function","stateMutability":"view","inputs":[{"name":"assetId","type":"uint256"},{"name":"holder","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"anonymous":false,"name":"Invested","type":"event","inputs":[{"indexed":true,"name":"assetId","type":"uint256"},{"indexed":true,"name":"investor","type":"address"},{"indexed":false,"name":"units","type":"uint256"}]},
	{"anonymous":false,"name":"Redeemed","type":"event","inputs":[{"indexed":true,"name":"assetId","type":"uint256"},{"indexed":true,"name":"investor","type":"address"},{"indexed":false,"name":"units","type":"uint256"}]}
]`

const registryABI = `[
	{"name":"registerAsset","type":"function","stateMutability":"nonpayable","inputs":[{"name":"name","type":"string"},{"name":"pricePerUnit","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"anonymous":false,"name":"AssetRegistered","type":"event","inputs":[{"indexed":true,"name":"assetId","type":"uint256"},{"indexed":false,"name":"name","type":"string"},{"indexed":false,"name":"pricePerUnit","type":"uint256"}]}
]`

// Bridge exposes the on-chain read and write surface the platform consumes.
// All units and amounts are expressed in the token's display scale; the
// bridge handles wei conversion internally.
type Bridge interface {
	Enabled() bool
	PaymentBalance(ctx context.Context, wallet string) (decimal.Decimal, error)
	Allowance(ctx context.Context, owner string) (decimal.Decimal, error)
	ShareBalance(ctx context.Context, registryID uint64, wallet string) (decimal.Decimal, error)
	Invest(ctx context.Context, registryID uint64, units decimal.Decimal) (string, error)
	Redeem(ctx context.Context, registryID uint64, units decimal.Decimal) (string, error)
	RegisterAsset(ctx context.Context, name string, priceUSD decimal.Decimal) (uint64, string, error)
	ExchangeMNT(ctx context.Context, amount decimal.Decimal) (string, error)
}

type bridge struct {
	client   *ethclient.Client
	cfg      *Config
	logger   *zap.Logger
	auth     *bind.TransactOpts
	operator common.Address

	erc20    abi.ABI
	vault    abi.ABI
	registry abi.ABI

	token        common.Address
	vaultAddr    common.Address
	registryAddr common.Address
}

// New dials the configured RPC endpoint and prepares the contract bindings.
// When the configuration is incomplete a disabled bridge is returned instead
// of an error so the API can run database-only.
func New(cfg *Config, logger *zap.Logger) (Bridge, error) {
	if !cfg.Enabled() {
		logger.Info("chain bridge disabled: no RPC endpoint configured")
		return &disabledBridge{}, nil
	}

	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial chain RPC: %w", err)
	}

	b := &bridge{
		client:       client,
		cfg:          cfg,
		logger:       logger,
		token:        common.HexToAddress(cfg.PaymentToken),
		vaultAddr:    common.HexToAddress(cfg.AssetVault),
		registryAddr: common.HexToAddress(cfg.AssetRegistry),
	}

	if b.erc20, err = abi.JSON(strings.NewReader(erc20ABI)); err != nil {
		return nil, fmt.Errorf("failed to parse token ABI: %w", err)
	}
	if b.vault, err = abi.JSON(strings.NewReader(vaultABI)); err != nil {
		return nil, fmt.Errorf("failed to parse vault ABI: %w", err)
	}
	if b.registry, err = abi.JSON(strings.NewReader(registryABI)); err != nil {
		return nil, fmt.Errorf("failed to parse registry ABI: %w", err)
	}

	if cfg.OperatorKeyHex != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.OperatorKeyHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid operator key: %w", err)
		}
		auth, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(cfg.ChainID))
		if err != nil {
			return nil, fmt.Errorf("failed to build transactor: %w", err)
		}
		b.auth = auth
		b.operator = crypto.PubkeyToAddress(key.PublicKey)
	}

	return b, nil
}

func (b *bridge) Enabled() bool { return true }

// ToWei converts a display amount to the token's base unit.
func ToWei(amount decimal.Decimal) *big.Int {
	return amount.Shift(tokenDecimals).Truncate(0).BigInt()
}

// FromWei converts a base-unit amount to the token's display scale.
func FromWei(wei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei, -tokenDecimals)
}

func (b *bridge) call(ctx context.Context, to common.Address, contract abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}
	out, err := b.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}
	return contract.Unpack(method, out)
}

func (b *bridge) PaymentBalance(ctx context.Context, wallet string) (decimal.Decimal, error) {
	out, err := b.call(ctx, b.token, b.erc20, "balanceOf", common.HexToAddress(wallet))
	if err != nil {
		return decimal.Zero, err
	}
	return FromWei(out[0].(*big.Int)), nil
}

func (b *bridge) Allowance(ctx context.Context, owner string) (decimal.Decimal, error) {
	out, err := b.call(ctx, b.token, b.erc20, "allowance", common.HexToAddress(owner), b.vaultAddr)
	if err != nil {
		return decimal.Zero, err
	}
	return FromWei(out[0].(*big.Int)), nil
}

func (b *bridge) ShareBalance(ctx context.Context, registryID uint64, wallet string) (decimal.Decimal, error) {
	out, err := b.call(ctx, b.vaultAddr, b.vault, "positionOf",
		new(big.Int).SetUint64(registryID), common.HexToAddress(wallet))
	if err != nil {
		return decimal.Zero, err
	}
	return FromWei(out[0].(*big.Int)), nil
}

// transact packs, signs, submits, and waits for a transaction against the
// target contract, returning the transaction hash.
func (b *bridge) transact(ctx context.Context, to common.Address, contract abi.ABI, value *big.Int, method string, args ...interface{}) (*types.Receipt, error) {
	if b.auth == nil {
		return nil, errors.New("no operator key configured for chain writes")
	}

	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	nonce, err := b.client.PendingNonceAt(ctx, b.operator)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nonce: %w", err)
	}
	gasPrice, err := b.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas price: %w", err)
	}

	if value == nil {
		value = big.NewInt(0)
	}
	gasLimit, err := b.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  b.operator,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, fmt.Errorf("%s estimation reverted: %w", method, err)
	}

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
	signedTx, err := b.auth.Signer(b.operator, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to sign %s: %w", method, err)
	}

	if err := b.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", method, err)
	}

	b.logger.Info("submitted chain transaction",
		zap.String("method", method),
		zap.String("tx_hash", signedTx.Hash().Hex()))

	return b.waitMined(ctx, signedTx)
}

func (b *bridge) waitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(b.cfg.ConfirmTimeoutS)*time.Second)
	defer cancel()

	receipt, err := bind.WaitMined(ctx, b.client, tx)
	if err != nil {
		return nil, fmt.Errorf("timed out waiting for confirmation: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("transaction %s reverted", tx.Hash().Hex())
	}
	return receipt, nil
}

// ensureAllowance submits an approve for amount when the vault's current
// allowance is short, chaining the approval ahead of the investment.
func (b *bridge) ensureAllowance(ctx context.Context, amount decimal.Decimal) error {
	current, err := b.Allowance(ctx, b.operator.Hex())
	if err != nil {
		return err
	}
	if current.GreaterThanOrEqual(amount) {
		return nil
	}
	_, err = b.transact(ctx, b.token, b.erc20, nil, "approve", b.vaultAddr, ToWei(amount))
	return err
}

func (b *bridge) Invest(ctx context.Context, registryID uint64, units decimal.Decimal) (string, error) {
	if err := b.ensureAllowance(ctx, units); err != nil {
		return "", err
	}
	receipt, err := b.transact(ctx, b.vaultAddr, b.vault, nil, "invest",
		new(big.Int).SetUint64(registryID), ToWei(units))
	if err != nil {
		return "", err
	}
	return receipt.TxHash.Hex(), nil
}

func (b *bridge) Redeem(ctx context.Context, registryID uint64, units decimal.Decimal) (string, error) {
	receipt, err := b.transact(ctx, b.vaultAddr, b.vault, nil, "redeem",
		new(big.Int).SetUint64(registryID), ToWei(units))
	if err != nil {
		return "", err
	}
	return receipt.TxHash.Hex(), nil
}

func (b *bridge) RegisterAsset(ctx context.Context, name string, priceUSD decimal.Decimal) (uint64, string, error) {
	receipt, err := b.transact(ctx, b.registryAddr, b.registry, nil, "registerAsset", name, ToWei(priceUSD))
	if err != nil {
		return 0, "", err
	}

	registered, err := DecodeAssetRegistered(b.registry, receipt.Logs)
	if err != nil {
		return 0, receipt.TxHash.Hex(), err
	}
	return registered.AssetID, receipt.TxHash.Hex(), nil
}

func (b *bridge) ExchangeMNT(ctx context.Context, amount decimal.Decimal) (string, error) {
	receipt, err := b.transact(ctx, b.token, b.erc20, ToWei(amount), "exchangeMNT")
	if err != nil {
		return "", err
	}
	return receipt.TxHash.Hex(), nil
}

// disabledBridge is the nil-object used when no chain is configured.
type disabledBridge struct{}

func (d *disabledBridge) Enabled() bool { return false }

func (d *disabledBridge) PaymentBalance(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, ErrDisabled
}

func (d *disabledBridge) Allowance(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, ErrDisabled
}

func (d *disabledBridge) ShareBalance(context.Context, uint64, string) (decimal.Decimal, error) {
	return decimal.Zero, ErrDisabled
}

func (d *disabledBridge) Invest(context.Context, uint64, decimal.Decimal) (string, error) {
	return "", ErrDisabled
}

func (d *disabledBridge) Redeem(context.Context, uint64, decimal.Decimal) (string, error) {
	return "", ErrDisabled
}

func (d *disabledBridge) RegisterAsset(context.Context, string, decimal.Decimal) (uint64, string, error) {
	return 0, "", ErrDisabled
}

func (d *disabledBridge) ExchangeMNT(context.Context, decimal.Decimal) (string, error) {
	return "", ErrDisabled
}
