package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func TestMigrate(t *testing.T) {
	createTable := regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS customer")

	t.Run("applies embedded schema", func(t *testing.T) {
		_, _, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		mockPool.ExpectExec(createTable).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

		err := Migrate(context.Background(), mockPool, logger)
		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("surfaces exec failure", func(t *testing.T) {
		_, _, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()

		mockPool.ExpectExec(createTable).WillReturnError(errors.New("permission denied"))

		err := Migrate(context.Background(), mockPool, logger)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to apply migration migrations/0001_create_customer.sql")
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}
