// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

// Package mocks provides testify mocks for the room package interfaces.
package mocks

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/hearsay-chat/hearsay/internal/room"
)

// testingT is the subset of *testing.T the mock constructors need.
type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockRepository mocks room.Repository.
type MockRepository struct {
	mock.Mock
}

// NewMockRepository creates a MockRepository that asserts its expectations
// on test cleanup.
func NewMockRepository(t testingT) *MockRepository {
	m := &MockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRepository) Create(ctx context.Context, rm *room.Room) error {
	return m.Called(ctx, rm).Error(0)
}

func (m *MockRepository) Get(ctx context.Context, id ulid.ULID) (*room.Room, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*room.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ByAuthor(ctx context.Context, authorID ulid.ULID) ([]room.Room, error) {
	args := m.Called(ctx, authorID)
	if r := args.Get(0); r != nil {
		return r.([]room.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListByArchived(ctx context.Context, archived bool) ([]room.Room, error) {
	args := m.Called(ctx, archived)
	if r := args.Get(0); r != nil {
		return r.([]room.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) SetArchived(ctx context.Context, id ulid.ULID, archived bool) error {
	return m.Called(ctx, id, archived).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id ulid.ULID) error {
	return m.Called(ctx, id).Error(0)
}

var _ room.Repository = (*MockRepository)(nil)

// MockCommentRepository mocks room.CommentRepository.
type MockCommentRepository struct {
	mock.Mock
}

// NewMockCommentRepository creates a MockCommentRepository that asserts its
// expectations on test cleanup.
func NewMockCommentRepository(t testingT) *MockCommentRepository {
	m := &MockCommentRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *room.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentRepository) ListByRoom(ctx context.Context, roomID ulid.ULID) ([]room.Comment, error) {
	args := m.Called(ctx, roomID)
	if r := args.Get(0); r != nil {
		return r.([]room.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

var _ room.CommentRepository = (*MockCommentRepository)(nil)
