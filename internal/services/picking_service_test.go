package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"picktrack/internal/models"
)

type MockPickingAuditRepository struct {
	mock.Mock
}

func (m *MockPickingAuditRepository) CreateWithItems(ctx context.Context, audit *models.PickingAudit, items []*models.PickingAuditItem) (int64, error) {
	args := m.Called(ctx, audit, items)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPickingAuditRepository) GetByID(ctx context.Context, id int64) (*models.PickingAuditDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PickingAuditDetail), args.Error(1)
}

func (m *MockPickingAuditRepository) List(ctx context.Context, limit, offset int) ([]*models.PickingAudit, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PickingAudit), args.Error(1)
}

func (m *MockPickingAuditRepository) Summary(ctx context.Context) (*models.PickingAuditSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PickingAuditSummary), args.Error(1)
}

type PickingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockPickingAuditRepository
	service  PickingServiceInterface
	ctx      context.Context
}

func (suite *PickingServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockPickingAuditRepository{}
	suite.service = NewPickingService(NewOrderSource("unused.csv"), suite.mockRepo)
	suite.ctx = context.Background()
}

func TestPickingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PickingServiceTestSuite))
}

func (suite *PickingServiceTestSuite) TestSaveAudit_DerivesDifferences() {
	var gotAudit *models.PickingAudit
	var gotItems []*models.PickingAuditItem

	suite.mockRepo.On("CreateWithItems", suite.ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotAudit = args.Get(1).(*models.PickingAudit)
			gotItems = args.Get(2).([]*models.PickingAuditItem)
		}).
		Return(int64(42), nil)

	packages := 2
	submission := &models.PickingAuditSubmission{
		OrderNumber:    "SO1001",
		DespatchNumber: "D1",
		CustomerName:   "Acme",
		Status:         models.AuditStatusDiscrepancy,
		Packages:       &packages,
		Items: []models.PickingAuditItemInput{
			{Code: "X1", Description: "Widget", QtyReq: 10, QtyScan: 8},
			{Code: "X2", Description: "Gadget", QtyReq: 5, QtyScan: 5},
			{Code: "X3", Description: "Sprocket", QtyReq: 1, QtyScan: 4},
		},
	}

	id, err := suite.service.SaveAudit(suite.ctx, "operator7", submission)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(42), id)
	assert.Equal(suite.T(), "operator7", gotAudit.Username)
	assert.Equal(suite.T(), 2, gotAudit.Packages)
	assert.Len(suite.T(), gotItems, 3)
	assert.Equal(suite.T(), -2, gotItems[0].Difference)
	assert.Equal(suite.T(), 0, gotItems[1].Difference)
	assert.Equal(suite.T(), 3, gotItems[2].Difference)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PickingServiceTestSuite) TestSaveAudit_PackagesDefaultsToZero() {
	var gotAudit *models.PickingAudit
	suite.mockRepo.On("CreateWithItems", suite.ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotAudit = args.Get(1).(*models.PickingAudit)
		}).
		Return(int64(1), nil)

	_, err := suite.service.SaveAudit(suite.ctx, "operator7", &models.PickingAuditSubmission{
		OrderNumber:    "SO1001",
		DespatchNumber: "D1",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, gotAudit.Packages)
}

func (suite *PickingServiceTestSuite) TestSaveAudit_ExplicitZeroPackages() {
	var gotAudit *models.PickingAudit
	suite.mockRepo.On("CreateWithItems", suite.ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotAudit = args.Get(1).(*models.PickingAudit)
		}).
		Return(int64(1), nil)

	zero := 0
	_, err := suite.service.SaveAudit(suite.ctx, "operator7", &models.PickingAuditSubmission{
		OrderNumber:    "SO1001",
		DespatchNumber: "D1",
		Packages:       &zero,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, gotAudit.Packages)
}

func (suite *PickingServiceTestSuite) TestSaveAudit_EmptyItemListIsValid() {
	var gotItems []*models.PickingAuditItem
	suite.mockRepo.On("CreateWithItems", suite.ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotItems = args.Get(2).([]*models.PickingAuditItem)
		}).
		Return(int64(9), nil)

	id, err := suite.service.SaveAudit(suite.ctx, "operator7", &models.PickingAuditSubmission{
		OrderNumber:    "SO1001",
		DespatchNumber: "D1",
		Status:         models.AuditStatusComplete,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(9), id)
	assert.Empty(suite.T(), gotItems)
}

func (suite *PickingServiceTestSuite) TestSaveAudit_TimestampSecondPrecision() {
	var gotAudit *models.PickingAudit
	suite.mockRepo.On("CreateWithItems", suite.ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotAudit = args.Get(1).(*models.PickingAudit)
		}).
		Return(int64(1), nil)

	before := time.Now().Truncate(time.Second)
	_, err := suite.service.SaveAudit(suite.ctx, "operator7", &models.PickingAuditSubmission{
		OrderNumber:    "SO1001",
		DespatchNumber: "D1",
	})
	after := time.Now()

	assert.NoError(suite.T(), err)
	ts, parseErr := time.ParseInLocation("2006-01-02T15:04:05", gotAudit.Timestamp, time.Local)
	assert.NoError(suite.T(), parseErr)
	assert.False(suite.T(), ts.Before(before))
	assert.False(suite.T(), ts.After(after))
}

func (suite *PickingServiceTestSuite) TestSaveAudit_RepoErrorPropagates() {
	suite.mockRepo.On("CreateWithItems", suite.ctx, mock.Anything, mock.Anything).
		Return(int64(0), errors.New("connection refused"))

	_, err := suite.service.SaveAudit(suite.ctx, "operator7", &models.PickingAuditSubmission{
		OrderNumber:    "SO1001",
		DespatchNumber: "D1",
	})

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "connection refused")
}

func (suite *PickingServiceTestSuite) TestListAudits_Delegates() {
	expected := []*models.PickingAudit{{ID: 1, OrderNumber: "SO1001"}}
	suite.mockRepo.On("List", suite.ctx, 50, 0).Return(expected, nil)

	audits, err := suite.service.ListAudits(suite.ctx, 50, 0)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), expected, audits)
	suite.mockRepo.AssertExpectations(suite.T())
}
