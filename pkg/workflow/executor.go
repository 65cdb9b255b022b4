// Package workflow runs validated workflow metamodels: it schedules nodes
// in dependency order over a shared execution context, applying edge
// conditions and port-to-port bindings.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fluxion-ai/fluxion/pkg/eventbus"
	"github.com/fluxion-ai/fluxion/pkg/events"
	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/otelhelper"
	"github.com/fluxion-ai/fluxion/pkg/protocol"
	"github.com/fluxion-ai/fluxion/pkg/validation"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Instances resolves the long-lived node instance for a metamodel. One
// instance exists per metamodel id and is reused across runs; the
// executor treats instances as read-mostly collaborators and never
// mutates their configuration.
type Instances interface {
	NodeInstance(ctx context.Context, meta *models.NodeMetamodel) (protocol.NodeInstance, error)
}

// Executor drives one workflow run at a time. A single run is strictly
// sequential; independent runs with distinct execution contexts may use
// the same Executor concurrently.
type Executor struct {
	logger    *slog.Logger
	catalog   protocol.Catalog
	instances Instances
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
}

func NewExecutor(logger *slog.Logger, catalog protocol.Catalog, instances Instances) *Executor {
	return &Executor{
		logger:    logger.With("module", "workflow_executor"),
		catalog:   catalog,
		instances: instances,
	}
}

// WithPublisher enables run lifecycle event publication.
func (e *Executor) WithPublisher(publisher eventbus.EventPublisher) *Executor {
	e.publisher = publisher

	return e
}

// WithTracer enables per-run and per-node spans.
func (e *Executor) WithTracer(tracer trace.Tracer) *Executor {
	e.tracer = tracer

	return e
}

// Run creates a fresh execution context seeded with the given values,
// executes the workflow and returns the context alongside any fatal
// error. Context mutations made before a failure are preserved; there is
// no rollback and no retry.
func (e *Executor) Run(ctx context.Context, wf *models.WorkflowMetamodel, seed map[string]any) (*models.ExecutionContext, error) {
	execCtx := models.NewExecutionContext(generateExecutionID(), wf.ID, seed)

	return execCtx, e.Execute(ctx, wf, execCtx)
}

// Execute runs the workflow against a caller-owned execution context.
func (e *Executor) Execute(ctx context.Context, wf *models.WorkflowMetamodel, execCtx *models.ExecutionContext) error {
	logger := e.logger.With("workflow_id", wf.ID, "execution_id", execCtx.ID)
	started := time.Now()

	if e.tracer != nil {
		var span trace.Span

		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "workflow.run",
			attribute.String(otelhelper.WorkflowIDKey, wf.ID),
			attribute.String(otelhelper.ExecutionIDKey, execCtx.ID),
		)
		defer span.End()
	}

	run, err := e.prepare(ctx, wf)
	if err != nil {
		e.publishRunFailed(ctx, wf, execCtx, "", err, time.Since(started))

		return err
	}

	e.publish(ctx, execCtx.ID, events.RunStarted{BaseEvent: e.baseEvent(events.RunStartedEvent, wf, execCtx)})
	logger.Info("Starting workflow run", "nodes", len(wf.Nodes))

	processed := 0

	for len(run.ready) > 0 {
		node := run.ready[0]
		run.ready = run.ready[1:]

		if err := e.processNode(ctx, wf, run, node, execCtx, logger); err != nil {
			e.publishRunFailed(ctx, wf, execCtx, node.ID, err, time.Since(started))

			return err
		}

		processed++
	}

	logger.Info("Completed workflow run", "processed_nodes", processed, "duration", time.Since(started))
	e.publish(ctx, execCtx.ID, events.RunCompleted{
		BaseEvent:      e.baseEvent(events.RunCompletedEvent, wf, execCtx),
		ProcessedNodes: processed,
		Duration:       time.Since(started),
	})

	return nil
}

// runState is the per-run scheduling state.
type runState struct {
	metamodels map[string]*models.NodeMetamodel
	instances  map[string]protocol.NodeInstance
	outgoing   map[string][]*models.WorkflowEdge
	inDegree   map[string]int
	ready      []*models.WorkflowNode
}

// prepare resolves metamodels and instances and builds the scheduling
// state. The validator is trusted to have accepted the graph, but a
// cyclic graph reaching the executor would silently strand nodes, so
// acyclicity is re-checked and fails the run up front.
func (e *Executor) prepare(ctx context.Context, wf *models.WorkflowMetamodel) (*runState, error) {
	if !wf.Enabled {
		return nil, fmt.Errorf("workflow %s is disabled", wf.ID)
	}

	if cycleNodes := validation.CycleNodes(wf); len(cycleNodes) > 0 {
		return nil, fmt.Errorf("workflow %s contains a cycle involving nodes: %s",
			wf.ID, strings.Join(cycleNodes, ", "))
	}

	run := &runState{
		metamodels: make(map[string]*models.NodeMetamodel, len(wf.Nodes)),
		instances:  make(map[string]protocol.NodeInstance, len(wf.Nodes)),
		outgoing:   make(map[string][]*models.WorkflowEdge, len(wf.Nodes)),
		inDegree:   make(map[string]int, len(wf.Nodes)),
	}

	for _, node := range wf.Nodes {
		meta, err := e.catalog.NodeMetamodelByID(ctx, node.NodeMetamodelID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve metamodel %s for node %s: %w", node.NodeMetamodelID, node.ID, err)
		}

		if meta == nil {
			return nil, fmt.Errorf("metamodel %s for node %s not found", node.NodeMetamodelID, node.ID)
		}

		instance, err := e.instances.NodeInstance(ctx, meta)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve instance for node %s: %w", node.ID, err)
		}

		run.metamodels[node.ID] = meta
		run.instances[node.ID] = instance
		run.inDegree[node.ID] = 0
	}

	for _, edge := range wf.Edges {
		run.outgoing[edge.SourceNodeID] = append(run.outgoing[edge.SourceNodeID], edge)
		run.inDegree[edge.TargetNodeID]++
	}

	// Ready queue seeded in declaration order.
	for _, node := range wf.Nodes {
		if run.inDegree[node.ID] == 0 {
			run.ready = append(run.ready, node)
		}
	}

	return run, nil
}

func (e *Executor) processNode(ctx context.Context, wf *models.WorkflowMetamodel, run *runState, node *models.WorkflowNode, execCtx *models.ExecutionContext, logger *slog.Logger) error {
	meta := run.metamodels[node.ID]
	instance := run.instances[node.ID]
	nodeLogger := logger.With("node_id", node.ID, "node_kind", meta.Kind)
	started := time.Now()

	var span trace.Span

	if e.tracer != nil {
		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "workflow.node",
			attribute.String(otelhelper.NodeIDKey, node.ID),
			attribute.String(otelhelper.NodeKindKey, string(meta.Kind)),
		)
		defer span.End()
	}

	// Static input defaults seed the context; live values are never
	// overwritten.
	for _, input := range meta.Inputs {
		if input.Default != nil && !execCtx.Has(input.Key) {
			execCtx.Put(input.Key, input.Default)
		}
	}

	e.publish(ctx, execCtx.ID, events.NodeStarted{
		BaseEvent:       e.baseEvent(events.NodeStartedEvent, wf, execCtx),
		NodeID:          node.ID,
		NodeMetamodelID: node.NodeMetamodelID,
	})
	nodeLogger.Debug("Processing node")

	if err := instance.Process(ctx, execCtx); err != nil {
		nodeLogger.Error("Node processing failed", "error", err)

		if span != nil {
			otelhelper.SetError(span, err, attribute.String(otelhelper.NodeIDKey, node.ID))
		}

		e.publish(ctx, execCtx.ID, events.NodeFailed{
			BaseEvent: e.baseEvent(events.NodeFailedEvent, wf, execCtx),
			NodeID:    node.ID,
			Error:     err.Error(),
		})

		return fmt.Errorf("node %s failed: %w", node.ID, err)
	}

	e.publish(ctx, execCtx.ID, events.NodeCompleted{
		BaseEvent: e.baseEvent(events.NodeCompletedEvent, wf, execCtx),
		NodeID:    node.ID,
		Duration:  time.Since(started),
	})

	for _, edge := range run.outgoing[node.ID] {
		if !e.conditionPasses(edge, meta, execCtx, nodeLogger) {
			e.publish(ctx, execCtx.ID, events.EdgeSkipped{
				BaseEvent:     e.baseEvent(events.EdgeSkippedEvent, wf, execCtx),
				EdgeID:        edge.ID,
				ConditionPort: edge.Condition.Port,
				Expected:      edge.Condition.Value,
			})

			continue
		}

		e.applyBindings(edge, run.metamodels[edge.TargetNodeID], execCtx, nodeLogger)

		run.inDegree[edge.TargetNodeID]--
		if run.inDegree[edge.TargetNodeID] == 0 {
			if target, ok := wf.NodeByID(edge.TargetNodeID); ok {
				run.ready = append(run.ready, target)
			}
		}
	}

	return nil
}

// applyBindings copies context values along an edge's bindings. A missing
// source path falls back to the target port's static default; with no
// default the pair is skipped, logged and the run continues.
func (e *Executor) applyBindings(edge *models.WorkflowEdge, targetMeta *models.NodeMetamodel, execCtx *models.ExecutionContext, logger *slog.Logger) {
	for sourcePath, targetPath := range edge.Bindings {
		value, ok := execCtx.Get(sourcePath)
		if ok {
			execCtx.Put(targetPath, value)

			continue
		}

		targetKey, _, _ := strings.Cut(targetPath, ".")
		if targetMeta != nil {
			if port, found := targetMeta.InputPort(targetKey); found && port.Default != nil {
				execCtx.Put(targetPath, port.Default)

				continue
			}
		}

		logger.Warn("Binding source missing and target has no default, skipping",
			"edge_id", edge.ID, "source_path", sourcePath, "target_path", targetPath)
	}
}

func (e *Executor) publish(ctx context.Context, key string, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	if err := e.publisher.Publish(ctx, key, event); err != nil {
		e.logger.Warn("Failed to publish run event", "event_type", event.GetType(), "error", err)
	}
}

func (e *Executor) publishRunFailed(ctx context.Context, wf *models.WorkflowMetamodel, execCtx *models.ExecutionContext, nodeID string, err error, duration time.Duration) {
	e.publish(ctx, execCtx.ID, events.RunFailed{
		BaseEvent: e.baseEvent(events.RunFailedEvent, wf, execCtx),
		NodeID:    nodeID,
		Error:     err.Error(),
		Duration:  duration,
	})
}

func (e *Executor) baseEvent(eventType events.EventType, wf *models.WorkflowMetamodel, execCtx *models.ExecutionContext) events.BaseEvent {
	return events.BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now(),
		WorkflowID:  wf.ID,
		ExecutionID: execCtx.ID,
	}
}

func generateExecutionID() string {
	return "exec-" + uuid.New().String()[:8]
}
