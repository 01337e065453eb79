// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーや同期ジョブから利用する。
type MetricsCollector interface {
	RecordArticleView(lang string)
	RecordAccessDecision(outcome string, reason string)
	RecordBookmarkToggle(result string)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordArticlesSynced(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	articleViews    *prometheus.CounterVec
	accessDecisions *prometheus.CounterVec
	bookmarkToggles *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
	requestLatency  prometheus.Histogram
	articlesSynced  prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		articleViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteapi_article_views_total",
			Help: "ロケール別の記事詳細表示数",
		}, []string{"lang"}),
		accessDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteapi_access_decisions_total",
			Help: "本文アクセス判定の結果別の合計数",
		}, []string{"outcome", "reason"}),
		bookmarkToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteapi_bookmark_toggles_total",
			Help: "ブックマークトグルの結果別の合計数",
		}, []string{"result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "siteapi_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "siteapi_request_latency_seconds",
			Help:    "APIリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		articlesSynced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siteapi_articles_synced_total",
			Help: "同期ジョブでアップサートされた記事の合計数",
		}),
	}

	reg.MustRegister(
		c.articleViews,
		c.accessDecisions,
		c.bookmarkToggles,
		c.httpStatus,
		c.requestLatency,
		c.articlesSynced,
	)

	return c
}

// RecordArticleView は記事詳細の表示を記録する。
func (c *Collector) RecordArticleView(lang string) {
	c.articleViews.WithLabelValues(lang).Inc()
}

// RecordAccessDecision は本文アクセス判定の結果を記録する。
// outcomeは"full"または"preview"。reasonはプレビュー時の理由（fullの場合は空）。
func (c *Collector) RecordAccessDecision(outcome string, reason string) {
	c.accessDecisions.WithLabelValues(outcome, reason).Inc()
}

// RecordBookmarkToggle はブックマークトグルの結果を記録する。
// resultは"added"または"removed"。
func (c *Collector) RecordBookmarkToggle(result string) {
	c.bookmarkToggles.WithLabelValues(result).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordArticlesSynced は同期でアップサートされた記事数を記録する。
func (c *Collector) RecordArticlesSynced(count int) {
	c.articlesSynced.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
