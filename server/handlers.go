package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sig-0/fxconvert/convert"
	"github.com/sig-0/fxconvert/currency"
)

var (
	errInvalidAmount    = errors.New("invalid amount")
	errAmountOutOfRange = errors.New("converted amount out of range")
	errUnableToServe    = errors.New("unable to serve request")
	errMissingAmount    = errors.New("missing amount")
	errProvidersParam   = errors.New("invalid providers list")
)

// Providers lists the registered provider names, and the default chain
func (s *Server) Providers(w http.ResponseWriter, _ *http.Request) {
	names, err := s.conversions.ProviderNames()
	if err != nil {
		s.writeFailure(w, err)

		return
	}

	chain, err := s.conversions.DefaultProviderChain()
	if err != nil {
		s.writeFailure(w, err)

		return
	}

	writeJSON(w, http.StatusOK, &ProvidersResponse{
		Results:      names,
		DefaultChain: chain,
	})
}

// Rate fetches the base -> target exchange rate through the provider chain
func (s *Server) Rate(w http.ResponseWriter, r *http.Request) {
	s.metrics.rateRequestsTotal.Inc()

	var (
		baseParam      = chi.URLParam(r, "base")
		targetParam    = chi.URLParam(r, "target")
		providersParam = r.URL.Query().Get("providers")
	)

	base, err := s.resolver.Resolve(baseParam)
	if err != nil {
		s.writeFailure(w, err)

		return
	}

	target, err := s.resolver.Resolve(targetParam)
	if err != nil {
		s.writeFailure(w, err)

		return
	}

	providers, err := parseProviders(providersParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	provider, err := s.conversions.ExchangeRateProvider(providers...)
	if err != nil {
		s.writeFailure(w, err)

		return
	}

	// Resolved through the conversion, so the identity pair is served too
	rate, err := provider.CurrencyConversion(target).ExchangeRate(r.Context(), base)
	if err != nil {
		s.writeFailure(w, err)

		return
	}

	writeJSON(w, http.StatusOK, rate)
}

// Convert converts the given base amount into the target currency
func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	s.metrics.conversionRequestsTotal.Inc()

	var (
		baseParam      = chi.URLParam(r, "base")
		targetParam    = chi.URLParam(r, "target")
		amountParam    = r.URL.Query().Get("amount")
		providersParam = r.URL.Query().Get("providers")
	)

	base, err := s.resolver.Resolve(baseParam)
	if err != nil {
		s.writeFailure(w, err)

		return
	}

	number, err := parseAmount(amountParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	providers, err := parseProviders(providersParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	conversion, err := s.conversions.ConversionByCode(targetParam, providers...)
	if err != nil {
		s.writeFailure(w, err)

		return
	}

	from := currency.NewAmount(number, base)

	to, err := conversion.Apply(r.Context(), from)
	if err != nil {
		s.writeFailure(w, err)

		return
	}

	if math.IsInf(to.Number, 0) {
		writeError(w, http.StatusBadRequest, errAmountOutOfRange)

		return
	}

	writeJSON(w, http.StatusOK, &ConvertResponse{
		From: from,
		To:   to,
	})
}

// Availability reports if conversion into the target currency
// is supported by the given (or default) provider chain
func (s *Server) Availability(w http.ResponseWriter, r *http.Request) {
	var (
		targetParam    = chi.URLParam(r, "target")
		providersParam = r.URL.Query().Get("providers")
	)

	providers, err := parseProviders(providersParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	available, err := s.conversions.IsConversionAvailableByCode(targetParam, providers...)
	if err != nil {
		s.writeFailure(w, err)

		return
	}

	if len(providers) == 0 {
		if providers, err = s.conversions.DefaultProviderChain(); err != nil {
			s.writeFailure(w, err)

			return
		}
	}

	writeJSON(w, http.StatusOK, &AvailabilityResponse{
		Target:    strings.ToUpper(strings.TrimSpace(targetParam)),
		Providers: providers,
		Available: available,
	})
}

// parseProviders parses the comma separated provider chain.
// An empty value selects the default chain
func parseProviders(raw string) ([]string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, nil
	}

	parts := strings.Split(v, ",")
	providers := make([]string, 0, len(parts))

	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return nil, errProvidersParam
		}

		providers = append(providers, name)
	}

	return providers, nil
}

func parseAmount(raw string) (float64, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, errMissingAmount
	}

	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, errInvalidAmount
	}

	return n, nil
}

// statusFor maps a lookup error to its response status
func statusFor(err error) int {
	switch {
	case errors.Is(err, convert.ErrNoSuchProvider),
		errors.Is(err, convert.ErrRateNotFound):
		return http.StatusNotFound
	case errors.Is(err, convert.ErrInvalidArgument),
		errors.Is(err, currency.ErrUnknownCurrency),
		errors.Is(err, currency.ErrInvalidCode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeFailure writes the mapped error response.
// Internal errors are logged, and not exposed
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	status := statusFor(err)

	s.metrics.failedLookupsTotal.WithLabelValues(strconv.Itoa(status)).Inc()

	if status == http.StatusInternalServerError {
		s.logger.Error(
			"unable to serve request",
			"err", err,
		)

		err = errUnableToServe
	}

	writeError(w, status, err)
}

// writeJSON encodes the body before writing the status,
// so encoding failures are served as internal errors
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(&ErrorResponse{Error: errUnableToServe.Error()}) //nolint:errcheck // Fine to ignore
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, _ = w.Write(append(body, '\n')) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, &ErrorResponse{
		Error: err.Error(),
	})
}
