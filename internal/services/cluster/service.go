package cluster

import (
	"context"
	"errors"
	"fmt"

	"github.com/ChasLui/dokploy/internal/db/models"
	"github.com/ChasLui/dokploy/internal/procedure"
	"github.com/ChasLui/dokploy/internal/repository"
)

// Service exposes the persisted cluster node view. The sync job (or an
// operator via the CLI) refreshes records; the dashboard reads them.
type Service struct {
	nodes repository.NodeRepository
}

// NewService creates the cluster service.
func NewService(nodes repository.NodeRepository) *Service {
	return &Service{nodes: nodes}
}

// GetNodes lists the known cluster members.
func (s *Service) GetNodes(ctx context.Context) ([]models.ClusterNode, error) {
	return s.nodes.List(ctx)
}

// RemoveWorker removes a worker node record. Managers cannot be removed
// through the dashboard.
func (s *Service) RemoveWorker(ctx context.Context, nodeID string) error {
	node, err := s.nodes.GetByID(ctx, nodeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return procedure.NotFound("Node not found")
		}
		return err
	}
	if node.Role == "manager" {
		return procedure.BadRequest("Manager nodes cannot be removed")
	}
	if err := s.nodes.Delete(ctx, nodeID); err != nil {
		return fmt.Errorf("remove node: %w", err)
	}
	return nil
}

// RecordNode stores or refreshes a node record from the orchestrator.
func (s *Service) RecordNode(ctx context.Context, node *models.ClusterNode) error {
	if node.ID == "" || node.Hostname == "" {
		return procedure.BadRequest("Node ID and hostname are required")
	}
	return s.nodes.Upsert(ctx, node)
}

const nodeIDSchema = `{
	"type": "object",
	"properties": {"nodeId": {"type": "string", "minLength": 1}},
	"required": ["nodeId"]
}`

// RegisterProcedures exposes the cluster operations the dashboard calls.
func (s *Service) RegisterProcedures(reg *procedure.Registry) {
	reg.Register(procedure.Procedure{
		Name: "cluster.getNodes",
		Kind: procedure.KindQuery,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			return s.GetNodes(ctx)
		},
	})

	reg.Register(procedure.Procedure{
		Name:        "cluster.removeWorker",
		Kind:        procedure.KindMutation,
		InputSchema: nodeIDSchema,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			var in struct {
				NodeID string `json:"nodeId"`
			}
			if err := procedure.DecodeInput(input, &in); err != nil {
				return nil, procedure.BadRequest("Invalid input")
			}
			if err := s.RemoveWorker(ctx, in.NodeID); err != nil {
				return nil, err
			}
			return map[string]bool{"removed": true}, nil
		},
	})
}
