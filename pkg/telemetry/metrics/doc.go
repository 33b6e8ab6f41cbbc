// Package metrics provides Prometheus metrics collection for the
// configuration server.
//
// # Overview
//
// The metrics package tracks git synchronization operations (clone, fetch,
// checkout, reset, pull debounce outcomes) and encryption service
// operations (encrypt, decrypt, key lookup, key install), exposed on the
// /metrics endpoint in standard Prometheus exposition format.
//
// # Usage
//
//	collector := metrics.NewCollector(cfg, nil)
//
//	collector.RecordGitOperation("fetch", elapsed, err)
//	collector.RecordPull("updated")
//	collector.RecordRefresh(repoURI, time.Now())
//
//	collector.RecordEncryptOperation("encrypt", "success")
//	collector.SetKeyInstalled(true)
//
//	http.Handle("/metrics", collector.Handler())
//
// # Cardinality Management
//
// Repository URIs are passed through a CardinalityLimiter before being
// used as a label value, aggregating overflow into "other" to bound the
// number of distinct label combinations tracked per metric.
package metrics
