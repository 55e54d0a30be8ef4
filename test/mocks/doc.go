// Package mocks contains generated mock implementations for testing.
// Run `go generate ./test/mocks` to regenerate these files.
package mocks

//go:generate mockgen -source=../../internal/port/service.go -destination=mock_service.go -package=mocks
//go:generate mockgen -source=../../internal/port/cache.go -destination=mock_cache.go -package=mocks
