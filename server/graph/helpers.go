package graph

import (
	"errors"
	"strings"
	"time"

	"github.com/sig-0/fxconvert/convert"
	"github.com/sig-0/fxconvert/currency"
	"github.com/sig-0/fxconvert/server/graph/model"
	"github.com/sig-0/fxconvert/storage/types"
)

const (
	defaultLimit = int32(100)
	maxLimit     = int32(500)
)

var (
	errInvalidLimit         = errors.New("invalid limit")
	errInvalidOffset        = errors.New("invalid offset")
	errInvalidType          = errors.New("invalid type")
	errInvalidAmount        = errors.New("invalid amount")
	errAmountOutOfRange     = errors.New("converted amount out of range")
	errStorageNotConfigured = errors.New("rate storage is not configured")
)

func parseAsOf(asOf *model.Time) time.Time {
	if asOf == nil {
		return time.Now().UTC()
	}

	return time.Time(*asOf).UTC()
}

func parseLimitOffset(limit, offset *int32) (int32, int64, error) {
	lim := defaultLimit

	if limit != nil {
		if *limit < 0 {
			return 0, 0, errInvalidLimit
		}

		lim = *limit
	}

	switch {
	case lim == 0:
		lim = defaultLimit
	case lim > maxLimit:
		lim = maxLimit
	}

	var off int64

	if offset != nil {
		if *offset < 0 {
			return 0, 0, errInvalidOffset
		}

		off = int64(*offset)
	}

	return lim, off, nil
}

func parseSourceAndType(source *string, rt *model.RateType) (*types.Source, *types.RateType, error) {
	var src *types.Source

	if source != nil {
		if v := strings.TrimSpace(*source); v != "" {
			s := types.Source(strings.ToUpper(v))
			src = &s
		}
	}

	var outRT *types.RateType

	if rt != nil {
		if !rt.IsValid() {
			return nil, nil, errInvalidType
		}

		t := types.RateType(*rt)
		outRT = &t
	}

	return src, outRT, nil
}

func toModelExchangeRate(in *convert.ExchangeRate) *model.ExchangeRate {
	out := &model.ExchangeRate{
		Base:     in.Base.Code(),
		Term:     in.Term.Code(),
		Provider: in.Provider,
		RateType: model.RateType(in.RateType.String()),
		Factor:   in.Factor,
	}

	if !in.AsOf.IsZero() {
		asOf := model.Time(in.AsOf)
		out.AsOf = &asOf
	}

	return out
}

func toModelAmount(in currency.Amount) *model.Amount {
	return &model.Amount{
		Currency: in.Currency.Code(),
		Number:   in.Number,
	}
}

func toModelStoredRate(in *types.ExchangeRate) *model.StoredRate {
	return &model.StoredRate{
		AsOf:      model.Time(in.AsOf),
		FetchedAt: model.Time(in.FetchedAt),
		Base:      in.Base.String(),
		Target:    in.Target.String(),
		RateType:  model.RateType(in.RateType.String()),
		Source:    in.Source.String(),
		Rate:      in.Rate,
	}
}

func toStrings[T ~string](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, string(item))
	}

	return out
}

func clampTotalToInt32(total int64) int32 {
	if total <= 0 {
		return 0
	}

	const maxTotal = int64(^uint32(0) >> 1)
	if total > maxTotal {
		return int32(maxTotal)
	}

	return int32(total)
}
