package sql

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sig-0/fxconvert/storage/types"
)

const (
	defaultLimit = int32(100)
	maxLimit     = int32(500)
)

// Storage is the Postgres rate store
type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) *Storage {
	return &Storage{
		db: db,
	}
}

// rateRow is a single rateAsOf result row
type rateRow struct {
	AsOf      pgtype.Timestamptz `db:"as_of"`
	FetchedAt pgtype.Timestamptz `db:"fetched_at"`
	Rate      pgtype.Numeric     `db:"rate"`
	Base      string             `db:"base"`
	Target    string             `db:"target"`
	RateType  string             `db:"rate_type"`
	Source    string             `db:"source"`
	Total     int64              `db:"total"`
}

func (s *Storage) SaveExchangeRate(
	ctx context.Context,
	rate *types.ExchangeRate,
) error {
	_, err := s.db.Exec(
		ctx,
		saveExchangeRate,
		rate.Base.String(),
		rate.Target.String(),
		floatToNumeric(rate.Rate),
		rate.RateType.String(),
		rate.Source.String(),
		timeToTimestampz(rate.AsOf),
		timeToTimestampz(rate.FetchedAt),
	)
	if err != nil {
		return fmt.Errorf("unable to save exchange rate: %w", err)
	}

	return nil
}

func (s *Storage) RateAsOf(
	ctx context.Context,
	query *types.RateQuery,
	asOf time.Time,
) (*types.Page[*types.ExchangeRate], error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	rows, err := s.db.Query(
		ctx,
		rateAsOf,
		query.Base.String(),
		optional(query.Target),
		optional(query.Source),
		optional(query.RateType),
		timeToTimestampz(asOf),
		limit,
		max(query.Offset, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch rates: %w", err)
	}

	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[rateRow])
	if err != nil {
		return nil, fmt.Errorf("unable to scan rates: %w", err)
	}

	if len(results) == 0 {
		return &types.Page[*types.ExchangeRate]{
			Results: nil,
			Total:   0,
		}, nil // valid case
	}

	items := make([]*types.ExchangeRate, 0, len(results))

	for i := range results {
		if rate := parseExchangeRate(&results[i]); rate != nil {
			items = append(items, rate)
		}
	}

	return &types.Page[*types.ExchangeRate]{
		Results: items,
		Total:   results[0].Total,
	}, nil
}

func (s *Storage) ListSources(ctx context.Context) ([]types.Source, error) {
	return listCodes[types.Source](ctx, s.db, listSources)
}

func (s *Storage) ListCurrencies(ctx context.Context) ([]types.Currency, error) {
	return listCodes[types.Currency](ctx, s.db, listCurrencies)
}

// listCodes runs a single text column query
func listCodes[T ~string](ctx context.Context, db DBTX, query string) ([]T, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unable to list values: %w", err)
	}

	results, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("unable to scan values: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	out := make([]T, 0, len(results))
	for _, v := range results {
		out = append(out, T(v))
	}

	return out, nil
}

// parseExchangeRate parses the postgres row to the common Go type
func parseExchangeRate(row *rateRow) *types.ExchangeRate {
	if !row.Rate.Valid || row.Rate.Int == nil {
		return nil
	}

	return &types.ExchangeRate{
		Base:      types.Currency(row.Base),
		Target:    types.Currency(row.Target),
		Rate:      numericToFloat(row.Rate),
		RateType:  types.RateType(row.RateType),
		Source:    types.Source(row.Source),
		AsOf:      timestampzToTime(row.AsOf),
		FetchedAt: timestampzToTime(row.FetchedAt),
	}
}

// optional converts the optional filter into a nullable text param
func optional[T ~string](v *T) *string {
	if v == nil {
		return nil
	}

	s := string(*v)

	return &s
}

// floatToNumeric converts the float value to postgres numeric
func floatToNumeric(value float64) pgtype.Numeric {
	// round to 8dp and store as integer with exponent -8
	i := int64(math.Round(value * 1e8))

	return pgtype.Numeric{
		Int:   big.NewInt(i),
		Exp:   -8,
		Valid: true,
	}
}

// numericToFloat converts the postgres value to float
func numericToFloat(value pgtype.Numeric) float64 {
	f, _ := new(big.Rat).SetInt(value.Int).Float64()

	if value.Exp > 0 {
		f *= math.Pow10(int(value.Exp))
	} else if value.Exp < 0 {
		f /= math.Pow10(int(-value.Exp))
	}

	return f
}

// timeToTimestampz converts the time value to postgres timestamp
func timeToTimestampz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{
		Time:  t.UTC(),
		Valid: true,
	}
}

// timestampzToTime converts the postgres timestamp value to time
func timestampzToTime(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}

	return ts.Time.UTC()
}
