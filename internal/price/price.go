// Package price derives a token's USD price from AMM pair reserves and a
// price-feed reading using integer fixed-point arithmetic only. All division
// is truncating: the rounding bias toward zero is accepted because the
// results are display values, not settlement values.
package price

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"buybackScope/internal/model"
)

// BaseAssetDecimals is the fixed-point scale of the chain's native asset.
// The USD price inherits this scale from the base-unit price, so it must be
// carried explicitly wherever the two interact.
const BaseAssetDecimals = 18

// Pow10 returns exactly 10^n. A negative n or one beyond the uint8 decimals
// domain is rejected with ErrInvalidDecimals rather than clamped to zero.
func Pow10(n int) (*big.Int, error) {
	if n < 0 || n > 255 {
		return nil, fmt.Errorf("%w: %d", model.ErrInvalidDecimals, n)
	}
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil), nil
}

// Orient resolves which of the pair's reserves belongs to the target token
// and which to the base asset. Addresses compare case-insensitively. When
// neither orientation matches, the pair is not a token/base pair.
func Orient(reserves model.PairReserves, token, base common.Address) (reserveToken, reserveBase *big.Int, err error) {
	t0 := strings.ToLower(reserves.Token0.Hex())
	t1 := strings.ToLower(reserves.Token1.Hex())
	tk := strings.ToLower(token.Hex())
	bs := strings.ToLower(base.Hex())

	switch {
	case t0 == tk && t1 == bs:
		return reserves.Reserve0, reserves.Reserve1, nil
	case t1 == tk && t0 == bs:
		return reserves.Reserve1, reserves.Reserve0, nil
	default:
		return nil, nil, model.ErrOrientationMismatch
	}
}

// InBaseUnits computes the price of one whole token in the base asset's
// smallest unit: floor(reserveBase * 10^tokenDecimals / reserveToken).
// Either reserve being zero means the pair has no usable price.
func InBaseUnits(reserveToken, reserveBase *big.Int, tokenDecimals uint8) (*big.Int, error) {
	if reserveToken == nil || reserveBase == nil || reserveToken.Sign() == 0 || reserveBase.Sign() == 0 {
		return nil, model.ErrNoLiquidity
	}
	scale, err := Pow10(int(tokenDecimals))
	if err != nil {
		return nil, err
	}
	p := new(big.Int).Mul(reserveBase, scale)
	return p.Quo(p, reserveToken), nil
}

// USDFromBaseUnits converts a base-unit token price into USD using the
// base/USD feed reading: floor(priceBaseUnits * answer / 10^feedDecimals).
// The result keeps the base asset's fixed-point scale (18 on the chains this
// serves). A non-positive feed answer is unusable.
func USDFromBaseUnits(priceBaseUnits *big.Int, reading model.OracleReading) (*big.Int, error) {
	if reading.Answer == nil || reading.Answer.Sign() <= 0 {
		return nil, model.ErrInvalidOracleAnswer
	}
	scale, err := Pow10(int(reading.Decimals))
	if err != nil {
		return nil, err
	}
	p := new(big.Int).Mul(priceBaseUnits, reading.Answer)
	return p.Quo(p, scale), nil
}
