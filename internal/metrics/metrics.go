package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	EquipmentPurchased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEquipmentPurchased,
			Help: HelpTextEquipmentPurchased,
		},
		[]string{LabelEquipment},
	)

	EquipmentSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEquipmentSold,
			Help: HelpTextEquipmentSold,
		},
		[]string{LabelEquipment},
	)

	GoldSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGoldSpent,
			Help: HelpTextGoldSpent,
		},
	)

	GoldRefunded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGoldRefunded,
			Help: HelpTextGoldRefunded,
		},
	)

	Listings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameListings,
			Help: HelpTextListings,
		},
		[]string{LabelType, LabelOutcome},
	)

	MarketVolume = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMarketVolume,
			Help: HelpTextMarketVolume,
		},
		[]string{LabelType},
	)

	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOperationErrors,
			Help: HelpTextOperationErrors,
		},
		[]string{LabelCode},
	)

	SSEClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSSEClients,
			Help: HelpTextSSEClients,
		},
	)

	ActiveListings = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameActiveListings,
			Help: HelpTextActiveListings,
		},
		[]string{LabelItemType},
	)

	ActiveQuantity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameActiveQuantity,
			Help: HelpTextActiveQuantity,
		},
		[]string{LabelItemType},
	)
)
