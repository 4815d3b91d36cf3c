package test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"contentplanner/internal/models"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) ResolveIdentity(ctx context.Context, tokenString string) (*models.User, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, owner string, req models.CreatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, owner, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) ListPosts(ctx context.Context, owner string, filter models.PostFilter) (*models.PostPage, error) {
	args := m.Called(ctx, owner, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostPage), args.Error(1)
}

func (m *MockPostService) GetPost(ctx context.Context, owner, postID string) (*models.Post, error) {
	args := m.Called(ctx, owner, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) UpdatePost(ctx context.Context, owner, postID string, req *models.UpdatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, owner, postID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, owner, postID string) error {
	args := m.Called(ctx, owner, postID)
	return args.Error(0)
}

func (m *MockPostService) SetStatus(ctx context.Context, owner, postID string, status models.Status) (*models.Post, error) {
	args := m.Called(ctx, owner, postID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) UploadThumbnail(ctx context.Context, owner, postID string, file io.Reader, size int64, contentType, ext string) (*models.Post, error) {
	args := m.Called(ctx, owner, postID, file, size, contentType, ext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) ComputeStats(ctx context.Context, owner string) (*models.Stats, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

func (m *MockStatsService) ListDistinctTags(ctx context.Context, owner string) ([]string, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockDB struct {
	mock.Mock
}

func (m *MockDB) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDB) CloseDB() error {
	args := m.Called()
	return args.Error(0)
}
