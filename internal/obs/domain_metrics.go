package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PriceResolutionsTotal counts unit price resolutions by discount kind.
	PriceResolutionsTotal *prometheus.CounterVec
	// OverrideClampsTotal counts override prices floored at the minimum unit price.
	OverrideClampsTotal prometheus.Counter
	// CartOperationsTotal counts cart mutations by operation and outcome.
	CartOperationsTotal *prometheus.CounterVec
	// SalesTotal counts recorded sales by payment method.
	SalesTotal *prometheus.CounterVec
	// SaleAmount observes tax-inclusive sale totals.
	SaleAmount *prometheus.HistogramVec
	// CatalogCacheTotal counts catalog cache lookups by result.
	CatalogCacheTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers point-of-sale Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PriceResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_resolutions_total",
			Help:      "Unit price resolutions by applied discount kind.",
		}, []string{"kind"})
		OverrideClampsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_override_clamped_total",
			Help:      "Override prices raised to the minimum unit price.",
		})
		CartOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_operations_total",
			Help:      "Cart mutations by operation and result.",
		}, []string{"op", "result"})
		SalesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_total",
			Help:      "Recorded sales by payment method.",
		}, []string{"payment_method"})
		SaleAmount = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sale_amount",
			Help:      "Tax-inclusive sale totals in currency units.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"currency"})
		CatalogCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_total",
			Help:      "Catalog cache lookups by result.",
		}, []string{"result"})

		mustRegisterCollector(reg, PriceResolutionsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PriceResolutionsTotal = v
			}
		})
		mustRegisterCollector(reg, OverrideClampsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				OverrideClampsTotal = v
			}
		})
		mustRegisterCollector(reg, CartOperationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartOperationsTotal = v
			}
		})
		mustRegisterCollector(reg, SalesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SalesTotal = v
			}
		})
		mustRegisterCollector(reg, SaleAmount, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				SaleAmount = v
			}
		})
		mustRegisterCollector(reg, CatalogCacheTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogCacheTotal = v
			}
		})
	})
}

// ObservePriceKind increments the resolution counter when metrics are registered.
func ObservePriceKind(kind string, clamped bool) {
	if PriceResolutionsTotal != nil {
		PriceResolutionsTotal.WithLabelValues(kind).Inc()
	}
	if clamped && OverrideClampsTotal != nil {
		OverrideClampsTotal.Inc()
	}
}

// ObserveCartOp records a cart mutation outcome.
func ObserveCartOp(op string, err error) {
	if CartOperationsTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	CartOperationsTotal.WithLabelValues(op, result).Inc()
}

// ObserveCacheLookup records a catalog cache hit or miss.
func ObserveCacheLookup(hit bool) {
	if CatalogCacheTotal == nil {
		return
	}
	if hit {
		CatalogCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	CatalogCacheTotal.WithLabelValues("miss").Inc()
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
