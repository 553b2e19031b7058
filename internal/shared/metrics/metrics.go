package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	documentsUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "documents_uploaded_total",
			Help: "Documents persisted by the ingestion gateway",
		},
		[]string{"category"},
	)
	uploadsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "documents_upload_rejected_total",
			Help: "Uploads rejected before a document was persisted",
		},
		[]string{"reason"},
	)
	classificationFallback = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classification_fallback_total",
			Help: "Classifications that fell back to the default category",
		},
		[]string{"reason"},
	)
	chatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Chat answering requests by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)
	llmDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "External language model call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"operation", "outcome"},
	)
)

// IncDocumentUploaded counts a persisted document.
func IncDocumentUploaded(category string) {
	documentsUploaded.WithLabelValues(category).Inc()
}

// IncUploadRejected counts an upload rejected before persistence.
func IncUploadRejected(reason string) {
	uploadsRejected.WithLabelValues(reason).Inc()
}

// IncClassificationFallback counts a classification that degraded to the default category.
func IncClassificationFallback(reason string) {
	classificationFallback.WithLabelValues(reason).Inc()
}

// IncChat counts a chat request outcome.
func IncChat(mode, outcome string) {
	chatRequests.WithLabelValues(mode, outcome).Inc()
}

// ObserveLLM records the duration of an external model call started at start.
func ObserveLLM(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	llmDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
