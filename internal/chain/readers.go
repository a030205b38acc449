package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"buybackScope/internal/model"
)

// One reader per contract role. Each reader exposes only the view methods the
// snapshot builder consumes, so the set of on-chain calls is statically
// checkable. Sub-reads inside one logical read run concurrently and join with
// all-or-nothing semantics: the first failure fails the group.

// TokenReader reads ERC20 and tax-token state.
type TokenReader struct {
	client *Client
}

func NewTokenReader(client *Client) *TokenReader {
	return &TokenReader{client: client}
}

// Info reads name, symbol, and decimals as three concurrent calls.
func (r *TokenReader) Info(ctx context.Context, token common.Address) (model.TokenInfo, error) {
	parsed, err := erc20ABIInstance()
	if err != nil {
		return model.TokenInfo{}, fmt.Errorf("parse erc20 abi: %w", err)
	}

	info := model.TokenInfo{Address: token.Hex()}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		values, err := callMethod(gCtx, r.client, token, parsed, "name")
		if err != nil {
			return err
		}
		name, ok := values[0].(string)
		if !ok {
			return fmt.Errorf("name: unexpected type %T", values[0])
		}
		info.Name = name
		return nil
	})
	g.Go(func() error {
		values, err := callMethod(gCtx, r.client, token, parsed, "symbol")
		if err != nil {
			return err
		}
		symbol, ok := values[0].(string)
		if !ok {
			return fmt.Errorf("symbol: unexpected type %T", values[0])
		}
		info.Symbol = symbol
		return nil
	})
	g.Go(func() error {
		values, err := callMethod(gCtx, r.client, token, parsed, "decimals")
		if err != nil {
			return err
		}
		decimals, err := asDecimals(values[0])
		if err != nil {
			return err
		}
		info.Decimals = decimals
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.TokenInfo{}, &model.ReadError{Op: "token info", Err: err}
	}
	return info, nil
}

// Detail reads Info plus totalSupply and the transfer-tax fields, then the
// tax recipient's balance. The whole set is one group: no partial token data.
func (r *TokenReader) Detail(ctx context.Context, token common.Address) (model.TokenDetail, error) {
	parsed, err := erc20ABIInstance()
	if err != nil {
		return model.TokenDetail{}, fmt.Errorf("parse erc20 abi: %w", err)
	}

	detail := model.TokenDetail{TokenInfo: model.TokenInfo{Address: token.Hex()}}
	var taxRecipient common.Address

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := r.Info(gCtx, token)
		if err != nil {
			return err
		}
		detail.Name = info.Name
		detail.Symbol = info.Symbol
		detail.Decimals = info.Decimals
		return nil
	})
	g.Go(func() error {
		values, err := callMethod(gCtx, r.client, token, parsed, "totalSupply")
		if err != nil {
			return err
		}
		supply, err := asBigInt(values[0])
		if err != nil {
			return fmt.Errorf("totalSupply: %w", err)
		}
		detail.TotalSupply = supply
		return nil
	})
	g.Go(func() error {
		values, err := callMethod(gCtx, r.client, token, parsed, "taxPercent")
		if err != nil {
			return err
		}
		percent, err := asBigInt(values[0])
		if err != nil {
			return fmt.Errorf("taxPercent: %w", err)
		}
		detail.TaxPercent = percent
		return nil
	})
	g.Go(func() error {
		values, err := callMethod(gCtx, r.client, token, parsed, "taxRecipient")
		if err != nil {
			return err
		}
		recipient, err := asAddress(values[0])
		if err != nil {
			return fmt.Errorf("taxRecipient: %w", err)
		}
		taxRecipient = recipient
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.TokenDetail{}, &model.ReadError{Op: "token detail", Err: err}
	}

	// balanceOf depends on the recipient address, so it runs after the join.
	values, err := callMethod(ctx, r.client, token, parsed, "balanceOf", taxRecipient)
	if err != nil {
		return model.TokenDetail{}, &model.ReadError{Op: "token detail", Err: err}
	}
	balance, err := asBigInt(values[0])
	if err != nil {
		return model.TokenDetail{}, &model.ReadError{Op: "token detail", Err: fmt.Errorf("balanceOf: %w", err)}
	}
	detail.TaxRecipient = taxRecipient.Hex()
	detail.TaxRecipientBalance = balance

	return detail, nil
}

// FactoryReader resolves pairs on an AMM factory.
type FactoryReader struct {
	client *Client
}

func NewFactoryReader(client *Client) *FactoryReader {
	return &FactoryReader{client: client}
}

// PairFor returns the pair address for tokenA/tokenB. A zero address result
// means the pair does not exist and is reported as ErrPairNotFound.
func (r *FactoryReader) PairFor(ctx context.Context, factory, tokenA, tokenB common.Address) (common.Address, error) {
	parsed, err := factoryABIInstance()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse factory abi: %w", err)
	}

	values, err := callMethod(ctx, r.client, factory, parsed, "getPair", tokenA, tokenB)
	if err != nil {
		return common.Address{}, &model.ReadError{Op: "factory getPair", Err: err}
	}
	pair, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, &model.ReadError{Op: "factory getPair", Err: err}
	}
	if pair == (common.Address{}) {
		return common.Address{}, model.ErrPairNotFound
	}
	return pair, nil
}

// PairReader reads token ordering and reserves of an AMM pair.
type PairReader struct {
	client *Client
}

func NewPairReader(client *Client) *PairReader {
	return &PairReader{client: client}
}

// Reserves reads token0, token1, and getReserves as concurrent calls. The
// reads are independent and not guaranteed to come from the same block.
func (r *PairReader) Reserves(ctx context.Context, pair common.Address) (model.PairReserves, error) {
	parsed, err := pairABIInstance()
	if err != nil {
		return model.PairReserves{}, fmt.Errorf("parse pair abi: %w", err)
	}

	reserves := model.PairReserves{Pair: pair}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		values, err := callMethod(gCtx, r.client, pair, parsed, "token0")
		if err != nil {
			return err
		}
		addr, err := asAddress(values[0])
		if err != nil {
			return fmt.Errorf("token0: %w", err)
		}
		reserves.Token0 = addr
		return nil
	})
	g.Go(func() error {
		values, err := callMethod(gCtx, r.client, pair, parsed, "token1")
		if err != nil {
			return err
		}
		addr, err := asAddress(values[0])
		if err != nil {
			return fmt.Errorf("token1: %w", err)
		}
		reserves.Token1 = addr
		return nil
	})
	g.Go(func() error {
		values, err := callMethod(gCtx, r.client, pair, parsed, "getReserves")
		if err != nil {
			return err
		}
		if len(values) < 2 {
			return fmt.Errorf("getReserves: short return")
		}
		r0, err := asBigInt(values[0])
		if err != nil {
			return fmt.Errorf("reserve0: %w", err)
		}
		r1, err := asBigInt(values[1])
		if err != nil {
			return fmt.Errorf("reserve1: %w", err)
		}
		reserves.Reserve0 = r0
		reserves.Reserve1 = r1
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.PairReserves{}, &model.ReadError{Op: "pair reserves", Err: err}
	}
	return reserves, nil
}

// OracleReader reads a price feed.
type OracleReader struct {
	client *Client
}

func NewOracleReader(client *Client) *OracleReader {
	return &OracleReader{client: client}
}

// Latest reads the feed's decimals and latest round answer as two concurrent
// calls. The answer is returned as read; positivity is enforced by the caller.
func (r *OracleReader) Latest(ctx context.Context, feed common.Address) (model.OracleReading, error) {
	parsed, err := oracleABIInstance()
	if err != nil {
		return model.OracleReading{}, fmt.Errorf("parse oracle abi: %w", err)
	}

	reading := model.OracleReading{Feed: feed}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		values, err := callMethod(gCtx, r.client, feed, parsed, "decimals")
		if err != nil {
			return err
		}
		decimals, err := asDecimals(values[0])
		if err != nil {
			return err
		}
		reading.Decimals = decimals
		return nil
	})
	g.Go(func() error {
		values, err := callMethod(gCtx, r.client, feed, parsed, "latestRoundData")
		if err != nil {
			return err
		}
		if len(values) < 5 {
			return fmt.Errorf("latestRoundData: short return")
		}
		answer, err := asBigInt(values[1])
		if err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		reading.Answer = answer
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.OracleReading{}, &model.ReadError{Op: "oracle", Err: err}
	}
	return reading, nil
}

// RobotReader reads the buyback robot counters.
type RobotReader struct {
	client *Client
}

func NewRobotReader(client *Client) *RobotReader {
	return &RobotReader{client: client}
}

// Telemetry reads all nine robot fields as one concurrent batch. The counters
// are displayed as one coherent unit, so any sub-read failure fails the batch.
func (r *RobotReader) Telemetry(ctx context.Context, robot common.Address) (model.RobotTelemetry, error) {
	parsed, err := robotABIInstance()
	if err != nil {
		return model.RobotTelemetry{}, fmt.Errorf("parse robot abi: %w", err)
	}

	telemetry := model.RobotTelemetry{Address: robot}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		values, err := callMethod(gCtx, r.client, robot, parsed, "token")
		if err != nil {
			return err
		}
		addr, err := asAddress(values[0])
		if err != nil {
			return fmt.Errorf("token: %w", err)
		}
		telemetry.BoundToken = addr
		return nil
	})

	for _, field := range []struct {
		method string
		dst    **big.Int
	}{
		{"buybackCount", &telemetry.BuybackCount},
		{"totalBurned", &telemetry.TotalBurned},
		{"lastBuyback", &telemetry.LastBuyback},
		{"interval", &telemetry.Interval},
		{"buyPercent", &telemetry.BuyPercent},
		{"getNextBuybackIn", &telemetry.NextBuybackIn},
		{"getReserve", &telemetry.Reserve},
		{"totalBnbUsed", &telemetry.TotalBaseUsed},
	} {
		field := field
		g.Go(func() error {
			values, err := callMethod(gCtx, r.client, robot, parsed, field.method)
			if err != nil {
				return err
			}
			n, err := asBigInt(values[0])
			if err != nil {
				return fmt.Errorf("%s: %w", field.method, err)
			}
			*field.dst = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return model.RobotTelemetry{}, &model.ReadError{Op: "robot telemetry", Err: err}
	}
	return telemetry, nil
}
