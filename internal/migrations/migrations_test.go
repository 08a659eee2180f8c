package migrations

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type MigrationsTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	context context.Context
}

func (suite *MigrationsTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.context = context.Background()
}

func (suite *MigrationsTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestMigrationsTestSuite(t *testing.T) {
	suite.Run(t, new(MigrationsTestSuite))
}

func (suite *MigrationsTestSuite) expectVersionCheck(version, applied int) {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM schema_migrations WHERE version`).
		WithArgs(version).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(applied))
}

func (suite *MigrationsTestSuite) expectApply(sqlPattern string, version int, name string) {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(sqlPattern).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	suite.mock.ExpectExec(`INSERT INTO schema_migrations`).
		WithArgs(version, name).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()
}

func (suite *MigrationsTestSuite) TestRun_FreshDatabaseAppliesAll() {
	suite.mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	suite.expectVersionCheck(1, 0)
	suite.expectApply(`CREATE TABLE IF NOT EXISTS users`, 1, "create_users")

	suite.expectVersionCheck(2, 0)
	suite.expectApply(`CREATE TABLE IF NOT EXISTS picking_audits`, 2, "create_picking_audits")

	suite.expectVersionCheck(3, 0)
	suite.expectApply(`CREATE TABLE IF NOT EXISTS picking_audit_items`, 3, "create_picking_audit_items")

	suite.expectVersionCheck(4, 0)
	suite.mock.ExpectQuery(`information_schema.columns`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	suite.expectApply(`ALTER TABLE picking_audits ADD COLUMN packages`, 4, "add_packages_column")

	err := Run(suite.context, suite.mock)

	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MigrationsTestSuite) TestRun_PackagesColumnPresentIsRecordedWithoutExecuting() {
	suite.mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	suite.expectVersionCheck(1, 1)
	suite.expectVersionCheck(2, 1)
	suite.expectVersionCheck(3, 1)

	suite.expectVersionCheck(4, 0)
	suite.mock.ExpectQuery(`information_schema.columns`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	// Recorded as applied, but no ALTER TABLE runs.
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO schema_migrations`).
		WithArgs(4, "add_packages_column").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := Run(suite.context, suite.mock)

	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MigrationsTestSuite) TestRun_AllAppliedIsNoOp() {
	suite.mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	for version := 1; version <= 4; version++ {
		suite.expectVersionCheck(version, 1)
	}

	err := Run(suite.context, suite.mock)

	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *MigrationsTestSuite) TestRun_FailedStepStopsRun() {
	suite.mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	suite.expectVersionCheck(1, 0)
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).
		WillReturnError(errors.New("permission denied"))
	suite.mock.ExpectRollback()

	err := Run(suite.context, suite.mock)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "create_users")
	assert.Contains(suite.T(), err.Error(), "permission denied")
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
