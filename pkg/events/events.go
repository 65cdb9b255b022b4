// Package events defines the run lifecycle notifications published while
// workflows execute.
package events

import (
	"time"
)

type EventType string

const Topic = "fluxion.runs"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	RunStartedEvent   EventType = "run.started"
	RunCompletedEvent EventType = "run.completed"
	RunFailedEvent    EventType = "run.failed"

	NodeStartedEvent   EventType = "node.started"
	NodeCompletedEvent EventType = "node.completed"
	NodeFailedEvent    EventType = "node.failed"

	EdgeSkippedEvent EventType = "edge.skipped"
)

type BaseEvent struct {
	ID          string         `json:"id"`
	Type        EventType      `json:"type"`
	Timestamp   time.Time      `json:"timestamp"`
	WorkflowID  string         `json:"workflow_id"`
	ExecutionID string         `json:"execution_id"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type RunStarted struct {
	BaseEvent

	SeededKeys []string `json:"seeded_keys,omitempty"`
}

func (e RunStarted) GetType() EventType {
	return RunStartedEvent
}

type RunCompleted struct {
	BaseEvent

	ProcessedNodes int           `json:"processed_nodes"`
	Duration       time.Duration `json:"duration"`
}

func (e RunCompleted) GetType() EventType {
	return RunCompletedEvent
}

type RunFailed struct {
	BaseEvent

	NodeID   string        `json:"node_id,omitempty"`
	Error    string        `json:"error"`
	Duration time.Duration `json:"duration"`
}

func (e RunFailed) GetType() EventType {
	return RunFailedEvent
}

type NodeStarted struct {
	BaseEvent

	NodeID          string `json:"node_id"`
	NodeMetamodelID string `json:"node_metamodel_id"`
}

func (e NodeStarted) GetType() EventType {
	return NodeStartedEvent
}

type NodeCompleted struct {
	BaseEvent

	NodeID   string        `json:"node_id"`
	Duration time.Duration `json:"duration"`
}

func (e NodeCompleted) GetType() EventType {
	return NodeCompletedEvent
}

type NodeFailed struct {
	BaseEvent

	NodeID string `json:"node_id"`
	Error  string `json:"error"`
}

func (e NodeFailed) GetType() EventType {
	return NodeFailedEvent
}

type EdgeSkipped struct {
	BaseEvent

	EdgeID        string `json:"edge_id"`
	ConditionPort string `json:"condition_port"`
	Expected      string `json:"expected"`
}

func (e EdgeSkipped) GetType() EventType {
	return EdgeSkippedEvent
}
