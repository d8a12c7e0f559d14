package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"

	MetricNameEventsPublished = "events_published_total"

	MetricNameEquipmentPurchased = "equipment_purchased_total"
	MetricNameEquipmentSold      = "equipment_sold_total"
	MetricNameGoldSpent          = "shop_gold_spent_total"
	MetricNameGoldRefunded       = "shop_gold_refunded_total"
	MetricNameListings           = "market_listings_total"
	MetricNameMarketVolume       = "market_gold_volume_total"
	MetricNameOperationErrors    = "economy_operation_errors_total"
	MetricNameSSEClients         = "market_stream_clients"
	MetricNameActiveListings     = "market_active_listings"
	MetricNameActiveQuantity     = "market_active_quantity"
)

// Metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests currently being served"

	HelpTextEventsPublished = "Total number of domain events delivered to the metrics collector"

	HelpTextEquipmentPurchased = "Equipment bought from the shop"
	HelpTextEquipmentSold      = "Equipment sold back to the shop"
	HelpTextGoldSpent          = "Gold debited by shop purchases"
	HelpTextGoldRefunded       = "Gold credited by shop sell-backs"
	HelpTextListings           = "Marketplace listing transitions by outcome"
	HelpTextMarketVolume       = "Gold transferred between players by marketplace buys"
	HelpTextOperationErrors    = "Failed economy operations by error code"
	HelpTextSSEClients         = "Connected market stream clients"
	HelpTextActiveListings     = "Active marketplace listings by resource, as of the last snapshot"
	HelpTextActiveQuantity     = "Units held in active listings by resource, as of the last snapshot"
)

// Label names
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelEquipment = "equipment"
	LabelOutcome   = "outcome"
	LabelCode      = "code"
	LabelItemType  = "item_type"
)

// Label values
const (
	OutcomeCreated   = "created"
	OutcomeSold      = "sold"
	OutcomeCancelled = "cancelled"

	PathUnmatched = "unmatched"
)

// HTTPLatencyBuckets are histogram buckets in seconds.
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Log messages
const (
	LogMsgUnexpectedPayload = "Unexpected event payload"
	LogMsgMarketSnapshot    = "Market depth snapshot taken"
)
