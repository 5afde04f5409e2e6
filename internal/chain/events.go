package chain

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// AssetRegisteredEvent mirrors the registry's AssetRegistered log.
type AssetRegisteredEvent struct {
	AssetID      uint64
	Name         string
	PricePerUnit *big.Int
}

// PositionEvent mirrors the vault's Invested and Redeemed logs, which share a
// schema.
type PositionEvent struct {
	AssetID  uint64
	Investor common.Address
	Units    *big.Int
}

// DecodeAssetRegistered finds and decodes the AssetRegistered event in a
// receipt's logs.
func DecodeAssetRegistered(registry abi.ABI, logs []*types.Log) (*AssetRegisteredEvent, error) {
	event, ok := registry.Events["AssetRegistered"]
	if !ok {
		return nil, errors.New("registry ABI has no AssetRegistered event")
	}

	for _, lg := range logs {
		if len(lg.Topics) == 0 || lg.Topics[0] != event.ID {
			continue
		}

		out := struct {
			Name         string
			PricePerUnit *big.Int
		}{}
		if err := registry.UnpackIntoInterface(&out, "AssetRegistered", lg.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack AssetRegistered: %w", err)
		}

		// assetId is the first indexed topic
		if len(lg.Topics) < 2 {
			return nil, errors.New("AssetRegistered log missing assetId topic")
		}
		return &AssetRegisteredEvent{
			AssetID:      lg.Topics[1].Big().Uint64(),
			Name:         out.Name,
			PricePerUnit: out.PricePerUnit,
		}, nil
	}
	return nil, errors.New("no AssetRegistered event in receipt")
}

// DecodePositionEvent finds and decodes an Invested or Redeemed event in a
// receipt's logs; name selects which.
func DecodePositionEvent(vault abi.ABI, name string, logs []*types.Log) (*PositionEvent, error) {
	event, ok := vault.Events[name]
	if !ok {
		return nil, fmt.Errorf("vault ABI has no %s event", name)
	}

	for _, lg := range logs {
		if len(lg.Topics) == 0 || lg.Topics[0] != event.ID {
			continue
		}
		if len(lg.Topics) < 3 {
			return nil, fmt.Errorf("%s log missing indexed topics", name)
		}

		out := struct {
			Units *big.Int
		}{}
		if err := vault.UnpackIntoInterface(&out, name, lg.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack %s: %w", name, err)
		}

		return &PositionEvent{
			AssetID:  lg.Topics[1].Big().Uint64(),
			Investor: common.HexToAddress(lg.Topics[2].Hex()),
			Units:    out.Units,
		}, nil
	}
	return nil, fmt.Errorf("no %s event in receipt", name)
}
