package pagination_test

import (
	"testing"

	"clinic-reviews/internal/common/pagination"
)

func checkConfig(t *testing.T, got pagination.Config, page, limit, max int) {
	t.Helper()
	if got.DefaultPage != page || got.DefaultLimit != limit || got.MaxLimit != max {
		t.Errorf("config = %+v, want {%d %d %d}", got, page, limit, max)
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	checkConfig(t, pagination.DefaultConfig(), 1, 20, 100)
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("all set", func(t *testing.T) {
		t.Setenv("PAGINATION_DEFAULT_PAGE", "2")
		t.Setenv("PAGINATION_DEFAULT_LIMIT", "30")
		t.Setenv("PAGINATION_MAX_LIMIT", "200")
		checkConfig(t, pagination.LoadFromEnv(), 2, 30, 200)
	})

	t.Run("unset falls back", func(t *testing.T) {
		t.Setenv("PAGINATION_DEFAULT_PAGE", "")
		t.Setenv("PAGINATION_DEFAULT_LIMIT", "")
		t.Setenv("PAGINATION_MAX_LIMIT", "")
		checkConfig(t, pagination.LoadFromEnv(), 1, 20, 100)
	})

	t.Run("unparseable falls back", func(t *testing.T) {
		t.Setenv("PAGINATION_DEFAULT_PAGE", "first")
		t.Setenv("PAGINATION_DEFAULT_LIMIT", "a few")
		t.Setenv("PAGINATION_MAX_LIMIT", "lots")
		checkConfig(t, pagination.LoadFromEnv(), 1, 20, 100)
	})

	t.Run("partial override", func(t *testing.T) {
		t.Setenv("PAGINATION_DEFAULT_PAGE", "3")
		t.Setenv("PAGINATION_DEFAULT_LIMIT", "")
		t.Setenv("PAGINATION_MAX_LIMIT", "")
		checkConfig(t, pagination.LoadFromEnv(), 3, 20, 100)
	})
}
