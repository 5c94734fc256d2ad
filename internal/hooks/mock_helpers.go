package hooks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/michael-freling/claude-code-guards/internal/lint"
	"github.com/michael-freling/claude-code-guards/internal/workspace"
)

// MockWorkspace is a mock implementation of Workspace for testing.
type MockWorkspace struct {
	mock.Mock
}

// UnsavedWork is a mock implementation of Workspace.UnsavedWork.
func (m *MockWorkspace) UnsavedWork(ctx context.Context) workspace.UnsavedWork {
	args := m.Called(ctx)
	return args.Get(0).(workspace.UnsavedWork)
}

// MockCodeChecker is a mock implementation of CodeChecker for testing.
type MockCodeChecker struct {
	mock.Mock
}

// TypeCheck is a mock implementation of CodeChecker.TypeCheck.
func (m *MockCodeChecker) TypeCheck(ctx context.Context, filePath, content string) lint.Report {
	args := m.Called(ctx, filePath, content)
	return args.Get(0).(lint.Report)
}

// ESLint is a mock implementation of CodeChecker.ESLint.
func (m *MockCodeChecker) ESLint(ctx context.Context, filePath, content string) lint.Report {
	args := m.Called(ctx, filePath, content)
	return args.Get(0).(lint.Report)
}
