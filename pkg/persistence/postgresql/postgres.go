// Package postgresql provides PostgreSQL persistence for node metamodels
// and workflow metamodels. Documents are stored as JSONB alongside the
// columns queries filter on.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/persistence/sqlbase"
	_ "github.com/lib/pq" // postgres driver
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db            *sql.DB
	logger        *slog.Logger
	metamodelRepo *NodeMetamodelRepository
	workflowRepo  *WorkflowRepository
}

// NewPersistence connects, runs migrations and returns the persistence
// layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())
	if err := migrationManager.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:            database,
		logger:        logger,
		metamodelRepo: NewNodeMetamodelRepository(database),
		workflowRepo:  NewWorkflowRepository(database),
	}, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db == nil {
		return nil
	}

	if err := p.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (p *Persistence) NodeMetamodels(ctx context.Context) ([]*models.NodeMetamodel, error) {
	return p.metamodelRepo.GetAll(ctx)
}

func (p *Persistence) NodeMetamodelByID(ctx context.Context, id string) (*models.NodeMetamodel, error) {
	return p.metamodelRepo.GetByID(ctx, id)
}

func (p *Persistence) SaveNodeMetamodel(ctx context.Context, meta *models.NodeMetamodel) error {
	return p.metamodelRepo.Save(ctx, meta)
}

func (p *Persistence) DeleteNodeMetamodel(ctx context.Context, id string) error {
	return p.metamodelRepo.Delete(ctx, id)
}

func (p *Persistence) Workflows(ctx context.Context) ([]*models.WorkflowMetamodel, error) {
	return p.workflowRepo.GetAll(ctx)
}

func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.WorkflowMetamodel, error) {
	return p.workflowRepo.GetByID(ctx, id)
}

func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.WorkflowMetamodel) error {
	return p.workflowRepo.Save(ctx, workflow)
}

func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	return p.workflowRepo.Delete(ctx, id)
}
