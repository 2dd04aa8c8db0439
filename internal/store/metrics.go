package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MutationsTotal counts store mutations by store and operation.
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_mutations_total",
			Help: "Total number of cart and wishlist mutations",
		},
		[]string{"store", "operation"},
	)

	// PersistErrors counts failed writes of a store's list to the key-value store.
	PersistErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_persist_errors_total",
			Help: "Total number of failed store writes (in-memory state kept)",
		},
		[]string{"store"},
	)

	// LoadFallbacks counts loads that fell back to an empty list.
	LoadFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_load_fallbacks_total",
			Help: "Total number of store loads that fell back to an empty list",
		},
		[]string{"store", "reason"},
	)
)
