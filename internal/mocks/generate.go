// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// port interfaces. The mocks are generated using go:generate directives and
// provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	store := mocks.NewMockUserStore(ctrl)
//	store.EXPECT().GetByID(gomock.Any(), "user-1").Return(user, nil)
package mocks

// Generate mock for UserStore interface from internal/ports package.
// This creates MockUserStore with methods for all UserStore interface methods:
// Upsert, GetByID, GetByDiscordID, SetDiscordRoleIDs
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=user_store_mock.go github.com/zonewatch/zonewatch-api/internal/ports UserStore
