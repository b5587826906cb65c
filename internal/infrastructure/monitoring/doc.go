/*
Package monitoring provides Prometheus metrics for the dashboard backend.

Metrics live on a private registry so tests and multiple servers in one
process never collide. The collector satisfies the recorder interfaces of the
store, the lifecycle manager and the guarded persistence layer, and its
BreakerStateChanged method plugs into resilience.Settings.OnStateChange.

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/stats", monitoring.StatsHandler(metrics))
*/
package monitoring
