package anyfix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixContent(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		want        string
		wantChanged bool
	}{
		{
			name:        "object cast",
			content:     "const m = { a: 1 } as any;",
			want:        "const m = { a: 1 } as unknown as MockedObject;",
			wantChanged: true,
		},
		{
			name:        "object cast in call",
			content:     "fn({ a: 1 } as any)",
			want:        "fn({ a: 1 } as unknown as MockedObject)",
			wantChanged: true,
		},
		{
			name:        "identifier cast",
			content:     "const x = value as any;",
			want:        "const x = value as unknown as jest.MockedObject;",
			wantChanged: true,
		},
		{
			name:        "mocked fs",
			content:     "const mockedFs = fs as any\n",
			want:        "const mockedFs = fs as unknown as jest.Mocked<typeof fs>\n",
			wantChanged: true,
		},
		{
			name:        "connection types",
			content:     "let mockConnection: any;\nfunction f(_connection: any) {}",
			want:        "let mockConnection: unknown;\nfunction f(_connection: unknown) {}",
			wantChanged: true,
		},
		{
			name:        "object declaration",
			content:     "const obj: any = {};",
			want:        "const obj: Record<string, unknown> = {};",
			wantChanged: true,
		},
		{
			name:        "resource manager mock",
			content:     "  mockResourceManager = { get: jest.fn() } as any\n",
			want:        "  mockResourceManager = { get: jest.fn() } as unknown as jest.Mocked<ResourceManager>\n",
			wantChanged: true,
		},
		{
			name:        "stats mock",
			content:     "  return Promise.resolve({ isDirectory: () => true } as any)",
			want:        "  return Promise.resolve({ isDirectory: () => true } as unknown as fs.Stats)",
			wantChanged: true,
		},
		{
			name:        "event logger mocks",
			content:     "logOperation: jest.fn() as any, getLogEntries: jest.fn() as any, getOperationStatistics: jest.fn() as any, clearLogs: jest.fn() as any",
			want:        "logOperation: jest.fn(), getLogEntries: jest.fn(), getOperationStatistics: jest.fn(), clearLogs: jest.fn()",
			wantChanged: true,
		},
		{
			name:        "server config",
			content:     "start({\n  eventLogger: logger\n} as any)",
			want:        "start({\n  eventLogger: logger\n} as unknown as ServerConfig)",
			wantChanged: true,
		},
		{
			name:        "clean file",
			content:     "const x: unknown = 1;",
			want:        "const x: unknown = 1;",
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := FixContent(tt.content)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"tests/unit/b.test.ts":        "const x = y as any;",
		"tests/unit/nested/a.test.ts": "const obj: any = {};",
		"tests/unit/clean.test.ts":    "const x = 1;",
		"tests/unit/helper.ts":        "const x = y as any;",
		"tests/setup.ts":              "let mockConnection: any;",
	})

	fixed, err := Run(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"tests/unit/b.test.ts",
		"tests/unit/nested/a.test.ts",
		"tests/setup.ts",
	}, fixed)

	content, err := os.ReadFile(filepath.Join(root, "tests/unit/helper.ts"))
	require.NoError(t, err)
	assert.Equal(t, "const x = y as any;", string(content))

	content, err = os.ReadFile(filepath.Join(root, "tests/setup.ts"))
	require.NoError(t, err)
	assert.Equal(t, "let mockConnection: unknown;", string(content))

	again, err := Run(root)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestRun_MissingTestDir(t *testing.T) {
	_, err := Run(t.TempDir())
	assert.True(t, errors.Is(err, ErrTestDirMissing))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Fixed 0 files:\n", Format(nil))
	assert.Equal(t, "Fixed 2 files:\n  - tests/unit/a.test.ts\n  - tests/setup.ts\n",
		Format([]string{"tests/unit/a.test.ts", "tests/setup.ts"}))
}
