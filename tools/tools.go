//go:build tools

// Package tools documents development tool dependencies.
// These tools are run with `go run pkg@version` or installed globally and are
// not tracked in go.mod.
package tools

// Development tools:
//
// Air - live reload while editing templates and handlers
//   Install: go install github.com/air-verse/air@v1.63.0
//   Run:     DEV=true air -- -c .air.toml
//
// mockgen - regenerates internal/mocks from the ports interfaces
//   Run: go generate ./internal/mocks
