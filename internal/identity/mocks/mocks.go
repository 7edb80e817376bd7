// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

// Package mocks provides testify mocks for the identity package interfaces.
package mocks

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/hearsay-chat/hearsay/internal/identity"
	"github.com/hearsay-chat/hearsay/internal/room"
)

// testingT is the subset of *testing.T the mock constructors need.
type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockUserRepository mocks identity.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a MockUserRepository that asserts its
// expectations on test cleanup.
func NewMockUserRepository(t testingT) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateAuthToken(ctx context.Context, id ulid.ULID, token string) error {
	return m.Called(ctx, id, token).Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*identity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id ulid.ULID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*identity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByAuthToken(ctx context.Context, token string) (*identity.User, error) {
	args := m.Called(ctx, token)
	if u := args.Get(0); u != nil {
		return u.(*identity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id ulid.ULID) error {
	return m.Called(ctx, id).Error(0)
}

var _ identity.UserRepository = (*MockUserRepository)(nil)

// MockRoomLoader mocks identity.RoomLoader.
type MockRoomLoader struct {
	mock.Mock
}

// NewMockRoomLoader creates a MockRoomLoader that asserts its expectations
// on test cleanup.
func NewMockRoomLoader(t testingT) *MockRoomLoader {
	m := &MockRoomLoader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRoomLoader) ByAuthor(ctx context.Context, authorID ulid.ULID) ([]room.Room, error) {
	args := m.Called(ctx, authorID)
	if r := args.Get(0); r != nil {
		return r.([]room.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

var _ identity.RoomLoader = (*MockRoomLoader)(nil)

// MockPasswordHasher mocks identity.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a MockPasswordHasher that asserts its
// expectations on test cleanup.
func NewMockPasswordHasher(t testingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(password, digest string) (bool, error) {
	args := m.Called(password, digest)
	return args.Bool(0), args.Error(1)
}

var _ identity.PasswordHasher = (*MockPasswordHasher)(nil)

// MockTokenIssuer mocks identity.TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// NewMockTokenIssuer creates a MockTokenIssuer that asserts its expectations
// on test cleanup.
func NewMockTokenIssuer(t testingT) *MockTokenIssuer {
	m := &MockTokenIssuer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTokenIssuer) Issue(identityRef string) (string, error) {
	args := m.Called(identityRef)
	return args.String(0), args.Error(1)
}

var _ identity.TokenIssuer = (*MockTokenIssuer)(nil)
