package graph

import (
	"fmt"

	"github.com/99designs/gqlgen/graphql"

	"github.com/sig-0/fxconvert/server/graph/model"
)

// fieldArgs are the coerced field arguments, with variables applied
type fieldArgs map[string]any

func (a fieldArgs) value(name string) (any, bool) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, false
	}

	return v, true
}

func (a fieldArgs) string(name string) (string, error) {
	v, ok := a.value(name)
	if !ok {
		return "", fmt.Errorf("%w: %s is required", errInvalidArgument, name)
	}

	s, err := graphql.UnmarshalString(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", errInvalidArgument, name, err)
	}

	return s, nil
}

func (a fieldArgs) optionalString(name string) (*string, error) {
	if _, ok := a.value(name); !ok {
		return nil, nil //nolint:nilnil // Unset argument
	}

	s, err := a.string(name)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (a fieldArgs) stringList(name string) ([]string, error) {
	v, ok := a.value(name)
	if !ok {
		return nil, nil
	}

	// A single value is coerced into a list of one
	items, ok := v.([]any)
	if !ok {
		items = []any{v}
	}

	out := make([]string, 0, len(items))

	for _, item := range items {
		s, err := graphql.UnmarshalString(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", errInvalidArgument, name, err)
		}

		out = append(out, s)
	}

	return out, nil
}

func (a fieldArgs) float(name string) (float64, error) {
	v, ok := a.value(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", errInvalidArgument, name)
	}

	f, err := graphql.UnmarshalFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", errInvalidArgument, name, err)
	}

	return f, nil
}

func (a fieldArgs) optionalInt32(name string) (*int32, error) {
	v, ok := a.value(name)
	if !ok {
		return nil, nil //nolint:nilnil // Unset argument
	}

	i, err := graphql.UnmarshalInt32(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errInvalidArgument, name, err)
	}

	return &i, nil
}

func (a fieldArgs) optionalTime(name string) (*model.Time, error) {
	v, ok := a.value(name)
	if !ok {
		return nil, nil //nolint:nilnil // Unset argument
	}

	t, err := model.UnmarshalTime(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errInvalidArgument, name, err)
	}

	return &t, nil
}

func (a fieldArgs) optionalRateType(name string) (*model.RateType, error) {
	s, err := a.optionalString(name)
	if err != nil || s == nil {
		return nil, err
	}

	rt := model.RateType(*s)

	return &rt, nil
}

// pair reads the required base and target arguments
func (a fieldArgs) pair() (string, string, error) {
	base, err := a.string("base")
	if err != nil {
		return "", "", err
	}

	target, err := a.string("target")
	if err != nil {
		return "", "", err
	}

	return base, target, nil
}

func (a fieldArgs) rates() (RatesArgs, error) {
	var (
		args RatesArgs
		err  error
	)

	if args.Base, err = a.string("base"); err != nil {
		return RatesArgs{}, err
	}

	if args.Target, err = a.optionalString("target"); err != nil {
		return RatesArgs{}, err
	}

	if args.AsOf, err = a.optionalTime("asOf"); err != nil {
		return RatesArgs{}, err
	}

	if args.Source, err = a.optionalString("source"); err != nil {
		return RatesArgs{}, err
	}

	if args.RateType, err = a.optionalRateType("type"); err != nil {
		return RatesArgs{}, err
	}

	if args.Limit, err = a.optionalInt32("limit"); err != nil {
		return RatesArgs{}, err
	}

	if args.Offset, err = a.optionalInt32("offset"); err != nil {
		return RatesArgs{}, err
	}

	return args, nil
}
