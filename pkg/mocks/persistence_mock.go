package mocks

import (
	"context"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockPersistence is a mock implementation of persistence.Persistence.
type MockPersistence struct {
	mock.Mock
}

func (m *MockPersistence) NodeMetamodels(ctx context.Context) ([]*models.NodeMetamodel, error) {
	args := m.Called(ctx)

	metamodels, _ := args.Get(0).([]*models.NodeMetamodel)

	return metamodels, args.Error(1)
}

func (m *MockPersistence) NodeMetamodelByID(ctx context.Context, id string) (*models.NodeMetamodel, error) {
	args := m.Called(ctx, id)

	meta, _ := args.Get(0).(*models.NodeMetamodel)

	return meta, args.Error(1)
}

func (m *MockPersistence) SaveNodeMetamodel(ctx context.Context, meta *models.NodeMetamodel) error {
	args := m.Called(ctx, meta)

	return args.Error(0)
}

func (m *MockPersistence) DeleteNodeMetamodel(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockPersistence) Workflows(ctx context.Context) ([]*models.WorkflowMetamodel, error) {
	args := m.Called(ctx)

	workflows, _ := args.Get(0).([]*models.WorkflowMetamodel)

	return workflows, args.Error(1)
}

func (m *MockPersistence) WorkflowByID(ctx context.Context, id string) (*models.WorkflowMetamodel, error) {
	args := m.Called(ctx, id)

	workflow, _ := args.Get(0).(*models.WorkflowMetamodel)

	return workflow, args.Error(1)
}

func (m *MockPersistence) SaveWorkflow(ctx context.Context, workflow *models.WorkflowMetamodel) error {
	args := m.Called(ctx, workflow)

	return args.Error(0)
}

func (m *MockPersistence) DeleteWorkflow(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
