package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"peopleapi/internal/repository"
	"peopleapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonPostgres_Integration(t *testing.T) {
	it := testutil.OpenIsolatedDB(t)
	ctx := context.Background()
	repo := NewPersonPostgres(it.DB)

	// 60 rows with lowercase alphanumeric names so collation and byte order agree.
	seed := make(map[string]string, 60)
	names := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("id-%02d", i)
		name := fmt.Sprintf("person%03d", (i*37)%60)
		seed[id] = name
		names = append(names, name)
	}
	it.Seed(t, seed)
	sort.Strings(names)

	baseline, err := it.OpenBackends(ctx)
	require.NoError(t, err)

	t.Run("list is capped and sorted", func(t *testing.T) {
		people, err := repo.List(ctx, repository.ListLimit)
		require.NoError(t, err)
		require.Len(t, people, repository.ListLimit)

		for i, p := range people {
			assert.Equal(t, names[i], p.Name)
			assert.Equal(t, p.Name, seed[p.ID])
		}
	})

	t.Run("find by id", func(t *testing.T) {
		p, err := repo.FindByID(ctx, "id-07")
		require.NoError(t, err)
		assert.Equal(t, seed["id-07"], p.Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "id-99")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("injection-shaped id is a literal", func(t *testing.T) {
		for _, id := range []string{"x' OR '1'='1", "id-01'; DROP TABLE people; --", `id-01" OR ""="`} {
			_, err := repo.FindByID(ctx, id)
			assert.ErrorIs(t, err, sql.ErrNoRows, id)
		}
		var n int
		require.NoError(t, it.Admin.QueryRowContext(ctx, fmt.Sprintf(`SELECT count(*) FROM %q.people`, it.Schema)).Scan(&n))
		assert.Equal(t, 60, n)
	})

	t.Run("parallel lookups return their own rows", func(t *testing.T) {
		var wg sync.WaitGroup
		for id, name := range seed {
			wg.Add(1)
			go func(id, name string) {
				defer wg.Done()
				p, err := repo.FindByID(ctx, id)
				if assert.NoError(t, err, id) {
					assert.Equal(t, name, p.Name, id)
				}
			}(id, name)
		}
		wg.Wait()
	})

	t.Run("connections return to baseline", func(t *testing.T) {
		assert.Eventually(t, func() bool {
			n, err := it.OpenBackends(ctx)
			return err == nil && n == baseline
		}, 5*time.Second, 50*time.Millisecond)
		assert.Equal(t, 0, it.DB.Stats().OpenConnections)
	})
}
