package reporting

import (
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/sales-dashboard-api/internal/aggregation"
	"github.com/vfg2006/sales-dashboard-api/internal/cache"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Reporter responde às consultas do painel sobre os períodos gravados
type Reporter interface {
	Query(ctx context.Context, request domain.AggregationRequest) (*domain.AggregationResult, error)
	ListAvailablePeriods(ctx context.Context) (*domain.AvailablePeriods, error)
	Summary(ctx context.Context, period string) (*domain.PeriodSummary, error)
	InvalidateCache() int
	CacheStats() cache.Stats
}

// Options ajusta os padrões das consultas
type Options struct {
	TopN                   int
	ExcludedPaymentMethods []string
}

type Service struct {
	store    repository.PeriodStore
	options  Options
	datasets *cache.Memo[*domain.PeriodDataset]
	results  *cache.Memo[*domain.AggregationResult]
}

func NewService(store repository.PeriodStore, options Options) *Service {
	if options.TopN <= 0 {
		options.TopN = domain.DefaultTopN
	}
	return &Service{
		store:    store,
		options:  options,
		datasets: cache.NewMemo[*domain.PeriodDataset](),
		results:  cache.NewMemo[*domain.AggregationResult](),
	}
}

// Query valida a requisição, carrega os períodos e executa a agregação.
// Período inexistente gera QueryError com Kind not_found, nunca um resultado vazio.
func (s *Service) Query(ctx context.Context, request domain.AggregationRequest) (*domain.AggregationResult, error) {
	if err := request.Validate(); err != nil {
		return nil, domain.NewQueryError(domain.QueryInvalidRequest, "", err)
	}

	request = s.withDefaults(request)

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar requisição: %w", err)
	}

	result, cached, err := s.results.Do(cache.Key("query", string(payload)), func() (*domain.AggregationResult, error) {
		return s.runQuery(request)
	})
	if err != nil {
		return nil, err
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"kind":    request.Kind,
		"periods": result.Periods,
		"cached":  cached,
	}).Debug("Consulta de agregação executada")

	return result, nil
}

func (s *Service) runQuery(request domain.AggregationRequest) (*domain.AggregationResult, error) {
	periods, err := s.resolvePeriods(request)
	if err != nil {
		return nil, err
	}

	datasets := make([]*domain.PeriodDataset, 0, len(periods))
	labels := make([]string, 0, len(periods))
	for _, period := range periods {
		dataset, err := s.load(period)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, dataset)
		labels = append(labels, period.Label())
	}

	input := aggregation.Input{
		Request: request,
		Periods: labels,
		Records: aggregation.Combine(datasets...),
	}

	if needsComparison(request.Kind) && len(periods) == 1 {
		previous, err := s.comparePeriod(request.ComparePeriod, periods[0])
		if err != nil {
			return nil, err
		}
		if previous != nil {
			input.ComparePeriod = previous.Period.Label()
			input.Previous = previous.Records
		}
	}

	result := aggregation.Run(input)
	return &result, nil
}

// resolvePeriods devolve os períodos pedidos em ordem cronológica; vazio significa todos.
// period_delta sem período usa o mais recente.
func (s *Service) resolvePeriods(request domain.AggregationRequest) ([]domain.Period, error) {
	if len(request.Periods) == 0 {
		available, err := s.store.ListKeys()
		if err != nil {
			return nil, domain.NewQueryError(domain.QueryStoreFailure, "", err)
		}
		if request.Kind == domain.KindPeriodDelta {
			if len(available) == 0 {
				return nil, domain.NewQueryError(domain.QueryNotFound, "", fmt.Errorf("%w: nenhum período gravado", domain.ErrPeriodNotFound))
			}
			return available[len(available)-1:], nil
		}
		return available, nil
	}

	periods := make([]domain.Period, 0, len(request.Periods))
	seen := make(map[string]bool, len(request.Periods))
	for _, value := range request.Periods {
		period, err := domain.ParsePeriod(value)
		if err != nil {
			return nil, domain.NewQueryError(domain.QueryInvalidRequest, value, err)
		}
		if seen[period.Key()] {
			continue
		}
		seen[period.Key()] = true
		periods = append(periods, period)
	}

	domain.SortPeriods(periods)
	return periods, nil
}

// comparePeriod carrega o período de comparação. Sem período explícito, usa o anterior
// na ordem cronológica. Retorna nil quando ele não existe.
func (s *Service) comparePeriod(explicit string, current domain.Period) (*domain.PeriodDataset, error) {
	var target domain.Period

	if explicit != "" {
		period, err := domain.ParsePeriod(explicit)
		if err != nil {
			return nil, domain.NewQueryError(domain.QueryInvalidRequest, explicit, err)
		}
		target = period
	} else {
		previous, ok, err := s.previousPeriod(current)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		target = previous
	}

	dataset, err := s.load(target)
	if err != nil {
		var queryErr *domain.QueryError
		if errors.As(err, &queryErr) && queryErr.Kind == domain.QueryNotFound {
			return nil, nil
		}
		return nil, err
	}

	return dataset, nil
}

func (s *Service) previousPeriod(current domain.Period) (domain.Period, bool, error) {
	available, err := s.store.ListKeys()
	if err != nil {
		return domain.Period{}, false, domain.NewQueryError(domain.QueryStoreFailure, "", err)
	}

	var previous domain.Period
	found := false
	for _, period := range available {
		if period.Order() >= current.Order() {
			break
		}
		previous = period
		found = true
	}

	return previous, found, nil
}

// load lê o período do armazenamento, memoizado até a próxima invalidação
func (s *Service) load(period domain.Period) (*domain.PeriodDataset, error) {
	dataset, _, err := s.datasets.Do(cache.Key("dataset", period.Key()), func() (*domain.PeriodDataset, error) {
		return s.store.Get(period)
	})
	if err != nil {
		if errors.Is(err, domain.ErrPeriodNotFound) {
			return nil, domain.NewQueryError(domain.QueryNotFound, period.Key(), err)
		}
		return nil, domain.NewQueryError(domain.QueryStoreFailure, period.Key(), err)
	}
	return dataset, nil
}

// ListAvailablePeriods lista os períodos gravados em ordem cronológica
func (s *Service) ListAvailablePeriods(ctx context.Context) (*domain.AvailablePeriods, error) {
	periods, err := s.store.ListKeys()
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar períodos")
		return nil, domain.NewQueryError(domain.QueryStoreFailure, "", err)
	}

	domain.SortPeriods(periods)
	return domain.NewAvailablePeriods(periods), nil
}

// Summary monta os cards do período: total, formas de pagamento, quinzenas e variação
// sobre o período anterior
func (s *Service) Summary(ctx context.Context, periodValue string) (*domain.PeriodSummary, error) {
	period, err := domain.ParsePeriod(periodValue)
	if err != nil {
		return nil, domain.NewQueryError(domain.QueryInvalidRequest, periodValue, err)
	}

	dataset, err := s.load(period)
	if err != nil {
		return nil, err
	}

	previous, err := s.comparePeriod("", period)
	if err != nil {
		return nil, err
	}

	filters := aggregation.Filters{Exclude: s.options.ExcludedPaymentMethods}
	records := aggregation.Apply(dataset.Records, filters)
	total := aggregation.Total(records)

	summary := &domain.PeriodSummary{
		Period:          period.Label(),
		Total:           total,
		RecordCount:     len(records),
		ByPaymentMethod: aggregation.SumByGroup(records, domain.DimensionPaymentMethod),
	}

	if previous != nil {
		previousRecords := aggregation.Apply(previous.Records, filters)
		previousTotal := aggregation.Total(previousRecords)
		summary.PreviousPeriod = previous.Period.Label()
		summary.TotalDelta = aggregation.PercentDelta(total, &previousTotal)
		summary.Fortnight = aggregation.CompareFortnights(period.Label(), records, summary.PreviousPeriod, previousRecords)
	} else {
		summary.Fortnight = aggregation.CompareFortnights(period.Label(), records, "", nil)
	}

	log.ForContext(ctx).WithField("period", period.Key()).Debug("Resumo do período calculado")
	return summary, nil
}

// InvalidateCache descarta datasets e resultados memoizados
func (s *Service) InvalidateCache() int {
	return s.datasets.InvalidateAll() + s.results.InvalidateAll()
}

func (s *Service) CacheStats() cache.Stats {
	datasets := s.datasets.Stats()
	results := s.results.Stats()
	return cache.Stats{
		Entries:       datasets.Entries + results.Entries,
		Hits:          datasets.Hits + results.Hits,
		Misses:        datasets.Misses + results.Misses,
		Invalidations: datasets.Invalidations,
	}
}

func (s *Service) withDefaults(request domain.AggregationRequest) domain.AggregationRequest {
	if request.Kind == domain.KindTopN && request.Limit == 0 {
		request.Limit = s.options.TopN
	}
	if request.Direction == "" {
		request.Direction = domain.SortDescending
	}
	if len(s.options.ExcludedPaymentMethods) > 0 {
		excluded := make([]string, 0, len(request.ExcludePaymentMethods)+len(s.options.ExcludedPaymentMethods))
		excluded = append(excluded, request.ExcludePaymentMethods...)
		excluded = append(excluded, s.options.ExcludedPaymentMethods...)
		request.ExcludePaymentMethods = excluded
	}
	return request
}

func needsComparison(kind domain.AggregationKind) bool {
	return kind == domain.KindPeriodDelta || kind == domain.KindFortnightSplit
}
