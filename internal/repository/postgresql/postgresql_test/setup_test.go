package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/database"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))
	_, err = db.Exec(ctx, "TRUNCATE TABLE notifications, payrolls, attendances, leave_requests, users CASCADE")
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *database.DB, employeeID string, role user.Role) user.User {
	t.Helper()

	u, err := postgresql.NewUserRepository(db).Create(context.Background(), user.User{
		EmployeeID:   employeeID,
		Email:        employeeID + "@orbithr.test",
		PasswordHash: "hash",
		Role:         role,
	})
	require.NoError(t, err)
	return u
}
