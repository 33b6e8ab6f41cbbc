// Package httpapi implements the configuration server's HTTP API: the
// environment-resolution endpoints (`/{application}/{profile}[/{label}]`),
// the encryption endpoints (`/key`, `/encrypt`, `/decrypt`,
// `/encrypt/status`), and the health and metrics endpoints.
//
// Routing uses the standard library's pattern-based http.ServeMux
// (method- and wildcard-aware routing, no external router dependency).
// Requests pass through a fixed middleware chain — timeout, CORS,
// request ID, structured logging, panic recovery — before reaching a
// handler. Handlers translate between wire shapes and the pkg/gitrepo
// and pkg/encryption domain types; they hold no business logic of
// their own.
package httpapi
