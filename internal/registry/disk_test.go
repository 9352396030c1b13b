package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiskRegistry(t *testing.T) *DiskRegistry {
	t.Helper()

	reg := NewDiskRegistry(t.TempDir(), 100)
	require.NoError(t, reg.Init())
	return reg
}

func sampleProject(id, name string) *Project {
	now := time.Now()
	return &Project{
		ID:          id,
		Name:        name,
		Description: "test project",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestDiskRegistryCreateAndGet(t *testing.T) {
	reg := newTestDiskRegistry(t)
	require.NoError(t, reg.Create(sampleProject("p1", "Coffee Shop")))

	got, err := reg.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, "Coffee Shop", got.Name)
	assert.Equal(t, "test project", got.Description)
}

func TestDiskRegistryGetMissing(t *testing.T) {
	reg := newTestDiskRegistry(t)

	_, err := reg.Get("nope")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestDiskRegistryUpdate(t *testing.T) {
	reg := newTestDiskRegistry(t)
	project := sampleProject("p1", "Old Name")
	require.NoError(t, reg.Create(project))

	before := project.UpdatedAt
	time.Sleep(10 * time.Millisecond)

	project.Name = "New Name"
	require.NoError(t, reg.Update(project))

	got, err := reg.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.True(t, got.UpdatedAt.After(before))
}

func TestDiskRegistryUpdateMissing(t *testing.T) {
	reg := newTestDiskRegistry(t)
	assert.ErrorIs(t, reg.Update(sampleProject("ghost", "x")), ErrProjectNotFound)
}

func TestDiskRegistryDelete(t *testing.T) {
	reg := newTestDiskRegistry(t)
	require.NoError(t, reg.Create(sampleProject("p1", "x")))

	require.NoError(t, reg.Delete("p1"))

	_, err := reg.Get("p1")
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.ErrorIs(t, reg.Delete("p1"), ErrProjectNotFound)
}

// 列表按最近更新优先排序
func TestDiskRegistryListOrder(t *testing.T) {
	reg := newTestDiskRegistry(t)

	first := sampleProject("p1", "first")
	first.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, reg.Create(first))

	second := sampleProject("p2", "second")
	require.NoError(t, reg.Create(second))

	projects, err := reg.List()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "p2", projects[0].ID)
	assert.Equal(t, "p1", projects[1].ID)
}

// 重启后从索引和记录文件恢复
func TestDiskRegistrySurvivesRestart(t *testing.T) {
	dataDir := t.TempDir()

	reg := NewDiskRegistry(dataDir, 100)
	require.NoError(t, reg.Init())
	require.NoError(t, reg.Create(sampleProject("p1", "persisted")))
	require.NoError(t, reg.Close())

	reopened := NewDiskRegistry(dataDir, 100)
	require.NoError(t, reopened.Init())

	got, err := reopened.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Name)
}

// 缓存淘汰不影响读取，只是绕一次磁盘
func TestDiskRegistryCacheEviction(t *testing.T) {
	reg := NewDiskRegistry(t.TempDir(), 2)
	require.NoError(t, reg.Init())

	for _, id := range []string{"p1", "p2", "p3"} {
		project := sampleProject(id, id)
		require.NoError(t, reg.Create(project))
		time.Sleep(5 * time.Millisecond)
	}

	for _, id := range []string{"p1", "p2", "p3"} {
		got, err := reg.Get(id)
		require.NoError(t, err)
		assert.Equal(t, id, got.Name)
	}
}
