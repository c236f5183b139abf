// Package mocks provides mock implementations for testing the studyhall auth system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// auth ports. The mocks are generated using go:generate directives and provide a
// fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockProfileRepository(ctrl)
//	mockRepo.EXPECT().GetByID(gomock.Any(), "id").Return(profile, nil)
package mocks

// Generate mock for ProfileRepository interface from internal/ports.
// This creates MockProfileRepository with methods:
// GetByID, GetByEmail, Create, ApplyDiff, UpdateTheme
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=profile_repository_mock.go github.com/studyhall/studyhall-api/internal/ports ProfileRepository

// Generate mock for IdentityProvider interface from internal/ports.
// This creates MockIdentityProvider with methods:
// SignInWithPassword, CreateIdentity, DeleteIdentity
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=identity_provider_mock.go github.com/studyhall/studyhall-api/internal/ports IdentityProvider
