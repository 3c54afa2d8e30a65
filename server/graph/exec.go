package graph

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/sig-0/fxconvert/convert"
	"github.com/sig-0/fxconvert/currency"
	"github.com/sig-0/fxconvert/server/graph/model"
)

//go:embed schema.graphqls
var schemaSDL string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{
	Name:  "schema.graphqls",
	Input: schemaSDL,
})

// Error extension codes
const (
	codeBadRequest    = "BAD_REQUEST"
	codeNotFound      = "NOT_FOUND"
	codeNotConfigured = "NOT_CONFIGURED"
	codeInternal      = "INTERNAL_SERVER_ERROR"
)

var (
	errInvalidArgument       = errors.New("invalid argument")
	errIntrospectionDisabled = errors.New("introspection disabled")
	errUnableToResolve       = errors.New("unable to resolve field")
)

// executableSchema serves query operations over the Resolver.
// Complexity is left to the embedded (nil) schema, as no complexity limit is set up
type executableSchema struct {
	graphql.ExecutableSchema

	resolvers *Resolver
}

// NewExecutableSchema creates the executable fxconvert schema
func NewExecutableSchema(r *Resolver) graphql.ExecutableSchema {
	return &executableSchema{
		resolvers: r,
	}
}

func (e *executableSchema) Schema() *ast.Schema {
	return parsedSchema
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)

	if opCtx.Operation.Operation != ast.Query {
		return graphql.OneShot(&graphql.Response{
			Errors: gqlerror.List{
				gqlerror.Errorf("unsupported operation: %s", opCtx.Operation.Operation),
			},
		})
	}

	ec := &execution{
		ctx:      ctx,
		opCtx:    opCtx,
		resolver: e.resolvers.Query(),
		logger:   e.resolvers.logger,
	}

	var buf bytes.Buffer

	ec.query(opCtx.Operation.SelectionSet).MarshalGQL(&buf)

	return graphql.OneShot(&graphql.Response{
		Data:   buf.Bytes(),
		Errors: ec.errors,
	})
}

// execution is the state of a single query operation
type execution struct {
	ctx      context.Context
	opCtx    *graphql.OperationContext
	resolver QueryResolver
	logger   *slog.Logger

	errors gqlerror.List
}

// fieldFn marshals a field value, given the field's own selection set
type fieldFn func(sel ast.SelectionSet) graphql.Marshaler

func scalar(m graphql.Marshaler) fieldFn {
	return func(ast.SelectionSet) graphql.Marshaler {
		return m
	}
}

// object marshals the selected fields of an object value
func (ec *execution) object(sel ast.SelectionSet, typeName string, values map[string]fieldFn) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, []string{typeName})
	out := graphql.NewFieldSet(fields)

	for i, field := range fields {
		if field.Name == "__typename" {
			out.Values[i] = graphql.MarshalString(typeName)

			continue
		}

		fn, ok := values[field.Name]
		if !ok {
			out.Values[i] = graphql.Null

			continue
		}

		out.Values[i] = fn(field.Selections)
	}

	return out
}

// query resolves the root Query fields. A failed field resolves to null,
// and is reported in the response errors
func (ec *execution) query(sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, []string{"Query"})
	out := graphql.NewFieldSet(fields)

	for i, field := range fields {
		v, err := ec.queryField(field)
		if err != nil {
			ec.addError(field, err)

			v = graphql.Null
		}

		out.Values[i] = v
	}

	return out
}

func (ec *execution) queryField(field graphql.CollectedField) (graphql.Marshaler, error) {
	switch field.Name {
	case "__typename":
		return graphql.MarshalString("Query"), nil
	case "__schema", "__type":
		return nil, errIntrospectionDisabled
	}

	args := fieldArgs(field.ArgumentMap(ec.opCtx.Variables))

	switch field.Name {
	case "providers":
		p, err := ec.resolver.Providers(ec.ctx)
		if err != nil {
			return nil, err
		}

		return ec.providers(field.Selections, p), nil
	case "rate":
		base, target, err := args.pair()
		if err != nil {
			return nil, err
		}

		providers, err := args.stringList("providers")
		if err != nil {
			return nil, err
		}

		rate, err := ec.resolver.Rate(ec.ctx, base, target, providers)
		if err != nil {
			return nil, err
		}

		return ec.exchangeRate(field.Selections, rate), nil
	case "convert":
		base, target, err := args.pair()
		if err != nil {
			return nil, err
		}

		amount, err := args.float("amount")
		if err != nil {
			return nil, err
		}

		providers, err := args.stringList("providers")
		if err != nil {
			return nil, err
		}

		conversion, err := ec.resolver.Convert(ec.ctx, base, target, amount, providers)
		if err != nil {
			return nil, err
		}

		return ec.conversion(field.Selections, conversion), nil
	case "conversionAvailable":
		target, err := args.string("target")
		if err != nil {
			return nil, err
		}

		providers, err := args.stringList("providers")
		if err != nil {
			return nil, err
		}

		availability, err := ec.resolver.ConversionAvailable(ec.ctx, target, providers)
		if err != nil {
			return nil, err
		}

		return ec.availability(field.Selections, availability), nil
	case "rates":
		ratesArgs, err := args.rates()
		if err != nil {
			return nil, err
		}

		page, err := ec.resolver.Rates(ec.ctx, ratesArgs)
		if err != nil {
			return nil, err
		}

		return ec.ratePage(field.Selections, page), nil
	case "sources":
		items, err := ec.resolver.Sources(ec.ctx)
		if err != nil {
			return nil, err
		}

		return marshalStrings(items), nil
	case "currencies":
		items, err := ec.resolver.Currencies(ec.ctx)
		if err != nil {
			return nil, err
		}

		return marshalStrings(items), nil
	default:
		return nil, fmt.Errorf("%w: unknown field %s", errInvalidArgument, field.Name)
	}
}

// addError records the field error. Unexpected errors are logged,
// and reported without their details
func (ec *execution) addError(field graphql.CollectedField, err error) {
	code := errorCode(err)

	message := err.Error()
	if code == codeInternal {
		ec.logger.Error(
			"unable to resolve field",
			"field", field.Name,
			"err", err,
		)

		message = errUnableToResolve.Error()
	}

	ec.errors = append(ec.errors, &gqlerror.Error{
		Message: message,
		Path:    ast.Path{ast.PathName(field.Alias)},
		Extensions: map[string]any{
			"code": code,
		},
	})
}

// errorCode maps a resolver error to its extension code
func errorCode(err error) string {
	switch {
	case errors.Is(err, convert.ErrNoSuchProvider),
		errors.Is(err, convert.ErrRateNotFound):
		return codeNotFound
	case errors.Is(err, errStorageNotConfigured):
		return codeNotConfigured
	case errors.Is(err, convert.ErrInvalidArgument),
		errors.Is(err, currency.ErrUnknownCurrency),
		errors.Is(err, currency.ErrInvalidCode),
		errors.Is(err, errInvalidArgument),
		errors.Is(err, errIntrospectionDisabled),
		errors.Is(err, errInvalidAmount),
		errors.Is(err, errAmountOutOfRange),
		errors.Is(err, errInvalidLimit),
		errors.Is(err, errInvalidOffset),
		errors.Is(err, errInvalidType):
		return codeBadRequest
	default:
		return codeInternal
	}
}

func (ec *execution) providers(sel ast.SelectionSet, p *model.Providers) graphql.Marshaler {
	if p == nil {
		return graphql.Null
	}

	return ec.object(sel, "Providers", map[string]fieldFn{
		"names":        scalar(marshalStrings(p.Names)),
		"defaultChain": scalar(marshalStrings(p.DefaultChain)),
	})
}

func (ec *execution) exchangeRate(sel ast.SelectionSet, r *model.ExchangeRate) graphql.Marshaler {
	if r == nil {
		return graphql.Null
	}

	var asOf graphql.Marshaler = graphql.Null
	if r.AsOf != nil {
		asOf = model.MarshalTime(*r.AsOf)
	}

	return ec.object(sel, "ExchangeRate", map[string]fieldFn{
		"base":     scalar(graphql.MarshalString(r.Base)),
		"term":     scalar(graphql.MarshalString(r.Term)),
		"factor":   scalar(graphql.MarshalFloat(r.Factor)),
		"provider": scalar(graphql.MarshalString(r.Provider)),
		"rateType": scalar(graphql.MarshalString(string(r.RateType))),
		"asOf":     scalar(asOf),
	})
}

func (ec *execution) amount(sel ast.SelectionSet, a *model.Amount) graphql.Marshaler {
	if a == nil {
		return graphql.Null
	}

	return ec.object(sel, "Amount", map[string]fieldFn{
		"number":   scalar(graphql.MarshalFloat(a.Number)),
		"currency": scalar(graphql.MarshalString(a.Currency)),
	})
}

func (ec *execution) conversion(sel ast.SelectionSet, c *model.Conversion) graphql.Marshaler {
	if c == nil {
		return graphql.Null
	}

	return ec.object(sel, "Conversion", map[string]fieldFn{
		"from": func(sel ast.SelectionSet) graphql.Marshaler {
			return ec.amount(sel, c.From)
		},
		"to": func(sel ast.SelectionSet) graphql.Marshaler {
			return ec.amount(sel, c.To)
		},
	})
}

func (ec *execution) availability(sel ast.SelectionSet, a *model.Availability) graphql.Marshaler {
	if a == nil {
		return graphql.Null
	}

	return ec.object(sel, "Availability", map[string]fieldFn{
		"target":    scalar(graphql.MarshalString(a.Target)),
		"providers": scalar(marshalStrings(a.Providers)),
		"available": scalar(graphql.MarshalBoolean(a.Available)),
	})
}

func (ec *execution) storedRate(sel ast.SelectionSet, r *model.StoredRate) graphql.Marshaler {
	return ec.object(sel, "StoredRate", map[string]fieldFn{
		"asOf":      scalar(model.MarshalTime(r.AsOf)),
		"fetchedAt": scalar(model.MarshalTime(r.FetchedAt)),
		"base":      scalar(graphql.MarshalString(r.Base)),
		"target":    scalar(graphql.MarshalString(r.Target)),
		"rateType":  scalar(graphql.MarshalString(string(r.RateType))),
		"source":    scalar(graphql.MarshalString(r.Source)),
		"rate":      scalar(graphql.MarshalFloat(r.Rate)),
	})
}

func (ec *execution) ratePage(sel ast.SelectionSet, p *model.RatePage) graphql.Marshaler {
	if p == nil {
		return graphql.Null
	}

	return ec.object(sel, "RatePage", map[string]fieldFn{
		"results": func(sel ast.SelectionSet) graphql.Marshaler {
			out := make(graphql.Array, 0, len(p.Results))
			for _, r := range p.Results {
				out = append(out, ec.storedRate(sel, r))
			}

			return out
		},
		"total": scalar(graphql.MarshalInt(int(p.Total))),
	})
}

func marshalStrings(items []string) graphql.Marshaler {
	out := make(graphql.Array, 0, len(items))
	for _, item := range items {
		out = append(out, graphql.MarshalString(item))
	}

	return out
}
