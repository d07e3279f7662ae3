// Package mocks holds gomock doubles for the ports interfaces.
//
// Regenerate after interface changes with:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockJobApplicationStore(ctrl)
//	store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(rec, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/applytrack/applytrack/internal/ports CompletionClient,JobApplicationStore,ObjectStore,RateLimiter,SessionStore
