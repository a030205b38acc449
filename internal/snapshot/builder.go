// Package snapshot orchestrates chain reads into the two served views. Every
// snapshot is computed fresh from current chain state; the builder holds no
// cross-request state.
package snapshot

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"buybackScope/internal/format"
	"buybackScope/internal/model"
	"buybackScope/internal/price"
)

// Source interfaces mirror the chain reader capabilities the builder needs.
// They are satisfied by internal/chain and by fakes in tests.

type TokenSource interface {
	Info(ctx context.Context, token common.Address) (model.TokenInfo, error)
	Detail(ctx context.Context, token common.Address) (model.TokenDetail, error)
}

type FactorySource interface {
	PairFor(ctx context.Context, factory, tokenA, tokenB common.Address) (common.Address, error)
}

type PairSource interface {
	Reserves(ctx context.Context, pair common.Address) (model.PairReserves, error)
}

type OracleSource interface {
	Latest(ctx context.Context, feed common.Address) (model.OracleReading, error)
}

type RobotSource interface {
	Telemetry(ctx context.Context, robot common.Address) (model.RobotTelemetry, error)
}

type NodeSource interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error)
}

// Addresses is the fixed contract topology the builder serves, resolved once
// at process start from configuration.
type Addresses struct {
	Robot        common.Address
	DefaultToken common.Address
	Factory      common.Address
	Base         common.Address
	OracleFeed   common.Address
}

// Builder produces the robot-telemetry and price views.
type Builder struct {
	addrs   Addresses
	tokens  TokenSource
	factory FactorySource
	pairs   PairSource
	oracle  OracleSource
	robot   RobotSource
	node    NodeSource
	log     *zap.Logger
}

// New creates a Builder. A nil logger is replaced with a no-op logger.
func New(addrs Addresses, tokens TokenSource, factory FactorySource, pairs PairSource, oracle OracleSource, robot RobotSource, node NodeSource, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		addrs:   addrs,
		tokens:  tokens,
		factory: factory,
		pairs:   pairs,
		oracle:  oracle,
		robot:   robot,
		node:    node,
		log:     log,
	}
}

// BuildRobot reads the robot counter batch, the chain ID, and the robot's
// native balance concurrently, then the bound token's detail if one is set.
// A robot with no bound token is a valid, degraded response with Token nil.
// Token detail is all-or-nothing: any sub-read failure fails the request.
func (b *Builder) BuildRobot(ctx context.Context) (*model.RobotResponse, error) {
	var (
		telemetry     model.RobotTelemetry
		chainID       *big.Int
		nativeReserve *big.Int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := b.robot.Telemetry(gCtx, b.addrs.Robot)
		if err != nil {
			return err
		}
		telemetry = t
		return nil
	})
	g.Go(func() error {
		id, err := b.node.ChainID(gCtx)
		if err != nil {
			return err
		}
		chainID = id
		return nil
	})
	g.Go(func() error {
		bal, err := b.node.BalanceAt(gCtx, b.addrs.Robot)
		if err != nil {
			return err
		}
		nativeReserve = bal
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A configured token address overrides the one the robot reports.
	tokenAddr := telemetry.BoundToken
	if b.addrs.DefaultToken != (common.Address{}) {
		tokenAddr = b.addrs.DefaultToken
	}

	resp := &model.RobotResponse{
		OK:      true,
		ChainID: chainID.Uint64(),
		Robot: model.RobotView{
			Address:                b.addrs.Robot.Hex(),
			Token:                  tokenAddr.Hex(),
			BuybackCount:           telemetry.BuybackCount.String(),
			TotalBurned:            telemetry.TotalBurned.String(),
			TotalBurnedFormatted:   telemetry.TotalBurned.String(),
			LastBuyback:            telemetry.LastBuyback.String(),
			Interval:               telemetry.Interval.String(),
			BuyPercent:             telemetry.BuyPercent.String(),
			NextBuybackIn:          telemetry.NextBuybackIn.String(),
			Reserve:                telemetry.Reserve.String(),
			ReserveFormatted:       format.Units(telemetry.Reserve, price.BaseAssetDecimals),
			NativeReserve:          nativeReserve.String(),
			NativeReserveFormatted: format.Units(nativeReserve, price.BaseAssetDecimals),
			TotalBaseUsed:          telemetry.TotalBaseUsed.String(),
			TotalBaseUsedFormatted: format.Units(telemetry.TotalBaseUsed, price.BaseAssetDecimals),
		},
		ServerTimeMs: time.Now().UnixMilli(),
	}

	if tokenAddr == (common.Address{}) {
		b.log.Debug("robot has no bound token, serving degraded view",
			zap.String("robot", b.addrs.Robot.Hex()))
		return resp, nil
	}

	detail, err := b.tokens.Detail(ctx, tokenAddr)
	if err != nil {
		return nil, err
	}

	resp.Robot.TotalBurnedFormatted = format.TokenAmount(telemetry.TotalBurned, detail.Decimals, 6)
	resp.Token = &model.RobotTokenView{
		Address:                      detail.Address,
		Name:                         detail.Name,
		Symbol:                       detail.Symbol,
		Decimals:                     detail.Decimals,
		TotalSupply:                  detail.TotalSupply.String(),
		TotalSupplyFormatted:         format.TokenAmount(detail.TotalSupply, detail.Decimals, 2),
		TaxPercent:                   detail.TaxPercent.String(),
		TaxRecipient:                 detail.TaxRecipient,
		TaxRecipientBalance:          detail.TaxRecipientBalance.String(),
		TaxRecipientBalanceFormatted: format.TokenAmount(detail.TaxRecipientBalance, detail.Decimals, 6),
	}
	return resp, nil
}

// BuildPrice resolves the token/base pair and derives the token's USD price
// from its reserves and the base/USD feed. Every stage failure fails the
// whole view; there is no partial price response.
func (b *Builder) BuildPrice(ctx context.Context, token common.Address) (*model.PriceResponse, error) {
	info, err := b.tokens.Info(ctx, token)
	if err != nil {
		return nil, err
	}

	pair, err := b.factory.PairFor(ctx, b.addrs.Factory, token, b.addrs.Base)
	if err != nil {
		return nil, err
	}

	reserves, err := b.pairs.Reserves(ctx, pair)
	if err != nil {
		return nil, err
	}

	reserveToken, reserveBase, err := price.Orient(reserves, token, b.addrs.Base)
	if err != nil {
		return nil, err
	}

	priceBaseUnits, err := price.InBaseUnits(reserveToken, reserveBase, info.Decimals)
	if err != nil {
		return nil, err
	}

	reading, err := b.oracle.Latest(ctx, b.addrs.OracleFeed)
	if err != nil {
		return nil, err
	}

	priceUSD, err := price.USDFromBaseUnits(priceBaseUnits, reading)
	if err != nil {
		return nil, err
	}

	return &model.PriceResponse{
		OK:    true,
		Token: info,
		Pair: model.PairView{
			Address:               pair.Hex(),
			Factory:               b.addrs.Factory.Hex(),
			Base:                  b.addrs.Base.Hex(),
			ReserveToken:          reserveToken.String(),
			ReserveBase:           reserveBase.String(),
			ReserveTokenFormatted: format.TokenAmount(reserveToken, info.Decimals, 6),
			ReserveBaseFormatted:  format.Units(reserveBase, price.BaseAssetDecimals),
		},
		Price: model.PriceView{
			OracleFeed:              reading.Feed.Hex(),
			OracleAnswer:            reading.Answer.String(),
			OracleDecimals:          reading.Decimals,
			OracleFormatted:         format.Units(reading.Answer, reading.Decimals),
			TokenPriceBaseUnits:     priceBaseUnits.String(),
			TokenPriceBaseFormatted: format.Units(priceBaseUnits, price.BaseAssetDecimals),
			TokenPriceUsdFixed18:    priceUSD.String(),
			TokenPriceUsd:           format.Units(priceUSD, price.BaseAssetDecimals),
		},
		ServerTimeMs: time.Now().UnixMilli(),
	}, nil
}
