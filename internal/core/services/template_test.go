package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/promptcorpus/internal/adapters/driven/config/file"
	"github.com/custodia-labs/promptcorpus/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/promptcorpus/internal/core/domain"
)

func TestNewTemplateService(t *testing.T) {
	repo := memory.NewTemplateStore()

	service := NewTemplateService(repo)

	require.NotNil(t, service)
	assert.Equal(t, 0, repo.Loads(), "constructor does no I/O")
}

func TestTemplateService_AddThenGet_RoundTrip(t *testing.T) {
	captureLog(t)
	service := NewTemplateService(memory.NewTemplateStore())
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, "greet", "  Hello {{{name}}}, it is {{{day}}}.\n"))

	got, err := service.Get(ctx, "greet", map[string]string{"name": "Ada", "day": "Monday"}, false)

	require.NoError(t, err)
	assert.Equal(t, "greet", got.Name)
	assert.Equal(t, "Hello Ada, it is Monday.", got.Text)
	assert.Equal(t, map[string]string{"name": "Ada", "day": "Monday"}, got.Params)
}

func TestTemplateService_Get_UnknownNameIsSoftMiss(t *testing.T) {
	captureLog(t)
	service := NewTemplateService(memory.NewTemplateStore())

	got, err := service.Get(context.Background(), "nope", nil, false)

	require.NoError(t, err)
	assert.Equal(t, "nope", got.Name)
	assert.Equal(t, "", got.Text)
	assert.NotNil(t, got.Params)
}

func TestTemplateService_Get_ParamsAreCopied(t *testing.T) {
	captureLog(t)
	repo := memory.NewTemplateStore()
	repo.Put("a", "{{{x}}}")
	service := NewTemplateService(repo)
	params := map[string]string{"x": "1"}

	got, err := service.Get(context.Background(), "a", params, false)
	require.NoError(t, err)
	params["x"] = "changed"

	assert.Equal(t, "1", got.Params["x"])
}

func TestTemplateService_GetAll_Sorted(t *testing.T) {
	captureLog(t)
	repo := memory.NewTemplateStore()
	repo.Put("zeta", "z {{{p}}}")
	repo.Put("alpha", "a {{{p}}}")
	repo.Put("mid", "no params")
	service := NewTemplateService(repo)

	got, err := service.GetAll(context.Background(), map[string]string{"p": "P"}, false)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "alpha", got[0].Name)
	assert.Equal(t, "a P", got[0].Text)
	assert.Equal(t, "mid", got[1].Name)
	assert.Equal(t, "no params", got[1].Text)
	assert.Equal(t, "zeta", got[2].Name)
	assert.Equal(t, "z P", got[2].Text)
}

func TestTemplateService_List(t *testing.T) {
	captureLog(t)
	repo := memory.NewTemplateStore()
	repo.Put("b", "{{{x}}} and {{{x}}} and {{{y}}}")
	repo.Put("a", "你好")
	service := NewTemplateService(repo)

	infos, err := service.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.TemplateInfo{
		{Name: "a", Length: 2, ParamNum: 0},
		{Name: "b", Length: 31, ParamNum: 3},
	}, infos)
}

func TestTemplateService_LoadsOnce(t *testing.T) {
	captureLog(t)
	repo := memory.NewTemplateStore()
	service := NewTemplateService(repo)
	ctx := context.Background()

	_, err := service.List(ctx)
	require.NoError(t, err)
	_, err = service.Get(ctx, "x", nil, false)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Loads())

	_, err = service.Get(ctx, "x", nil, true)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Loads())
}

func TestTemplateService_Refresh_PicksUpExternalChanges(t *testing.T) {
	captureLog(t)
	repo := memory.NewTemplateStore()
	service := NewTemplateService(repo)
	ctx := context.Background()

	status, err := service.Status(ctx, false)
	require.NoError(t, err)
	assert.True(t, status.Available)
	assert.Empty(t, status.Templates)

	repo.Put("late", "arrived")

	status, err = service.Status(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, status.Templates, "no reload without refresh")

	status, err = service.Status(ctx, true)
	require.NoError(t, err)
	require.Len(t, status.Templates, 1)
	assert.Equal(t, "late", status.Templates[0].Name)
}

func TestTemplateService_Refresh_FailureKeepsPreviousSet(t *testing.T) {
	captureLog(t)
	repo := memory.NewTemplateStore()
	repo.Put("keep", "me")
	service := NewTemplateService(repo)
	ctx := context.Background()
	require.NoError(t, service.Refresh(ctx))

	boom := errors.New("disk gone")
	repo.FailLoad(boom)

	err := service.Refresh(ctx)
	assert.ErrorIs(t, err, boom)

	got, err := service.Get(ctx, "keep", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "me", got.Text)
}

func TestTemplateService_Add_SaveFailure(t *testing.T) {
	captureLog(t)
	repo := memory.NewTemplateStore()
	boom := errors.New("read-only")
	repo.FailSave(boom)
	service := NewTemplateService(repo)

	err := service.Add(context.Background(), "a", "x")

	assert.ErrorIs(t, err, boom)
}

func TestTemplateService_Add_InvalidName(t *testing.T) {
	service := NewTemplateService(memory.NewTemplateStore())

	for _, name := range []string{"", "  ", "a/b", `a\b`, "..", "."} {
		err := service.Add(context.Background(), name, "x")
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "name %q", name)
	}
}

func TestTemplateService_Unconfigured(t *testing.T) {
	buf := captureLog(t)
	service := NewTemplateService(nil)
	ctx := context.Background()

	require.NoError(t, service.Refresh(ctx))
	assert.Contains(t, buf.String(), "[WARN]")

	status, err := service.Status(ctx, false)
	require.NoError(t, err)
	assert.False(t, status.Available)
	assert.NotNil(t, status.Templates)
	assert.Empty(t, status.Templates)

	_, err = service.Get(ctx, "a", nil, false)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)

	_, err = service.GetAll(ctx, nil, false)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)

	err = service.Add(ctx, "a", "x")
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestTemplateService_SetRepository(t *testing.T) {
	captureLog(t)
	repo := memory.NewTemplateStore()
	repo.Put("a", "A")
	service := NewTemplateService(nil)
	ctx := context.Background()

	status, err := service.Status(ctx, false)
	require.NoError(t, err)
	assert.False(t, status.Available)

	service.SetRepository(repo)
	status, err = service.Status(ctx, false)
	require.NoError(t, err)
	assert.True(t, status.Available)
	assert.Len(t, status.Templates, 1)

	service.SetRepository(nil)
	require.NoError(t, service.Refresh(ctx))
	status, err = service.Status(ctx, false)
	require.NoError(t, err)
	assert.False(t, status.Available)
	assert.Empty(t, status.Templates)
}

func TestTemplateService_ConcurrentAddAndRead(t *testing.T) {
	captureLog(t)
	service := NewTemplateService(memory.NewTemplateStore())
	ctx := context.Background()
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(2)
		go func(name string) {
			defer wg.Done()
			assert.NoError(t, service.Add(ctx, name, "{{{v}}}-"+name))
		}(name)
		go func() {
			defer wg.Done()
			_, err := service.GetAll(ctx, map[string]string{"v": "x"}, false)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := service.GetAll(ctx, map[string]string{"v": "x"}, false)
	require.NoError(t, err)
	require.Len(t, all, len(names))
	for i, r := range all {
		assert.Equal(t, names[i], r.Name)
		assert.Equal(t, "x-"+names[i], r.Text)
	}
}

func TestTemplateService_WithFileStore(t *testing.T) {
	captureLog(t)
	repo, err := file.NewTemplateStore(t.TempDir())
	require.NoError(t, err)
	service := NewTemplateService(repo)
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, "intro", "Dear {{{who}}},\n"))
	got, err := service.Get(ctx, "intro", map[string]string{"who": "team"}, true)

	require.NoError(t, err)
	assert.Equal(t, "Dear team,", got.Text)
}
