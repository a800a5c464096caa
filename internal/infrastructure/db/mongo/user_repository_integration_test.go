//go:build integration

package mongo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/talentflow/auth-service/internal/core/domain"
	mongostore "github.com/talentflow/auth-service/internal/infrastructure/db/mongo"
)

func setupMongo(t *testing.T) *mongostore.UserRepository {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.PortEndpoint(ctx, "27017/tcp", "mongodb")
	require.NoError(t, err)

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: uri, Database: "talentflow_test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	repo := mongostore.NewUserRepository(db)
	require.NoError(t, repo.EnsureIndexes(ctx))
	require.NoError(t, repo.EnsureIndexes(ctx), "EnsureIndexes must be idempotent")
	return repo
}

func TestMongoUserRepository(t *testing.T) {
	repo := setupMongo(t)
	ctx := context.Background()

	t.Run("create assigns id and find returns it", func(t *testing.T) {
		created, err := repo.Create(ctx, &domain.User{Email: "Ann@X.com", PasswordHash: "h", Role: domain.RoleFreelancer})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		found, err := repo.FindByEmail(ctx, "ann@x.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, domain.RoleFreelancer, found.Role)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "ghost@x.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("concurrent duplicate registrations", func(t *testing.T) {
		const attempts = 8
		var wg sync.WaitGroup
		errs := make(chan error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Create(ctx, &domain.User{Email: "race@x.com", PasswordHash: "h", Role: domain.RoleClient})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var ok, dupes int
		for err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrDuplicateIdentity):
				dupes++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, attempts-1, dupes)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}
