// Package metrics объявляет метрики Prometheus сервиса рассылки.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения метки result.
const (
	ResultCreated   = "created"
	ResultDuplicate = "duplicate"
	ResultInvalid   = "invalid"
	ResultError     = "error"
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultThrottled = "throttled"
)

var (
	// Subscriptions считает попытки подписки по результату.
	Subscriptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "newsletter",
		Name:      "subscriptions_total",
		Help:      "Subscription attempts by result.",
	}, []string{"result"})

	// Logins считает попытки входа администратора по результату.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "newsletter",
		Name:      "logins_total",
		Help:      "Admin login attempts by result.",
	}, []string{"result"})

	// RequestDuration время обработки HTTP-запросов.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "newsletter",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)
