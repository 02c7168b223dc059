// Package web serves the browser interface and the small JSON API.
//
// Routes:
//
//	GET  /                     search form
//	POST /search               run a lookup (rate limited)
//	GET  /case/{id}            case details with orders
//	GET  /download/{filename}  stored order PDF, as an attachment
//	GET  /api/cases            all cases as JSON (rate limited)
//	GET  /recent               the last 20 searches
//	GET  /health               store connectivity
//	GET  /metrics              Prometheus exposition, when metrics are set
//
// Everything else renders the 404 page. Panics in handlers are recovered
// and render the 500 page.
package web
