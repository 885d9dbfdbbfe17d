package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
)

func TestNewYAMLCatalogRepository_Embedded(t *testing.T) {
	repo, err := NewYAMLCatalogRepository("")
	require.NoError(t, err)

	services, err := repo.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 5)
	assert.Equal(t, "automacao-cartorios", services[0].ID)
	assert.Equal(t, model.CategoryAutomation, services[0].Category)
	assert.NotEmpty(t, services[0].Features)

	// 返回的是副本，修改不影响仓储
	services[0] = nil
	again, err := repo.ListServices(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, again[0])
}

func TestFindByID(t *testing.T) {
	repo, err := NewYAMLCatalogRepository("")
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"存在", "implantacao-suporte", nil},
		{"大小写不敏感", "Deteccao-Fogo-Fumaca", nil},
		{"不存在", "nao-existe", constant.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := repo.FindByID(ctx, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, s.Title)
		})
	}
}

func TestCanceledContext(t *testing.T) {
	repo, err := NewYAMLCatalogRepository("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = repo.ListServices(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.FindByID(ctx, "automacao-cartorios")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewYAMLCatalogRepository_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  - id: unico\n    title: Único\n"), 0o644))

	repo, err := NewYAMLCatalogRepository(path)
	require.NoError(t, err)
	services, err := repo.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "unico", services[0].ID)

	_, err = NewYAMLCatalogRepository(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewYAMLCatalogRepositoryFromBytes_Invalid(t *testing.T) {
	_, err := NewYAMLCatalogRepositoryFromBytes([]byte("services: [unterminated"))
	assert.Error(t, err)
}
