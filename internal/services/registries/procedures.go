package registries

import (
	"context"

	"github.com/ChasLui/dokploy/internal/procedure"
)

const idSchema = `{
	"type": "object",
	"properties": {"registryId": {"type": "string", "minLength": 1}},
	"required": ["registryId"]
}`

const createSchema = `{
	"type": "object",
	"properties": {
		"registryName": {"type": "string", "minLength": 1},
		"registryUrl": {"type": "string", "minLength": 1},
		"username": {"type": "string", "minLength": 1},
		"password": {"type": "string", "minLength": 1},
		"imagePrefix": {"type": ["string", "null"]},
		"registryType": {"type": "string", "enum": ["cloud", "selfHosted"]}
	},
	"required": ["registryName", "registryUrl", "username", "password"]
}`

const updateSchema = `{
	"type": "object",
	"properties": {
		"registryId": {"type": "string", "minLength": 1},
		"registryName": {"type": "string"},
		"registryUrl": {"type": "string"},
		"username": {"type": "string"},
		"password": {"type": "string"},
		"imagePrefix": {"type": ["string", "null"]}
	},
	"required": ["registryId"]
}`

// RegisterProcedures exposes the registry operations the dashboard calls.
func (s *Service) RegisterProcedures(reg *procedure.Registry) {
	reg.Register(procedure.Procedure{
		Name: "registry.all",
		Kind: procedure.KindQuery,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			return s.All(ctx)
		},
	})

	reg.Register(procedure.Procedure{
		Name:        "registry.one",
		Kind:        procedure.KindQuery,
		InputSchema: idSchema,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			var in struct {
				RegistryID string `json:"registryId"`
			}
			if err := procedure.DecodeInput(input, &in); err != nil {
				return nil, procedure.BadRequest("Invalid input")
			}
			return s.One(ctx, in.RegistryID)
		},
	})

	reg.Register(procedure.Procedure{
		Name:        "registry.create",
		Kind:        procedure.KindMutation,
		InputSchema: createSchema,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			var in CreateInput
			if err := procedure.DecodeInput(input, &in); err != nil {
				return nil, procedure.BadRequest("Invalid input")
			}
			return s.Create(ctx, in)
		},
	})

	reg.Register(procedure.Procedure{
		Name:        "registry.update",
		Kind:        procedure.KindMutation,
		InputSchema: updateSchema,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			var in UpdateInput
			if err := procedure.DecodeInput(input, &in); err != nil {
				return nil, procedure.BadRequest("Invalid input")
			}
			return s.Update(ctx, in)
		},
	})

	reg.Register(procedure.Procedure{
		Name:        "registry.remove",
		Kind:        procedure.KindMutation,
		InputSchema: idSchema,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			var in struct {
				RegistryID string `json:"registryId"`
			}
			if err := procedure.DecodeInput(input, &in); err != nil {
				return nil, procedure.BadRequest("Invalid input")
			}
			if err := s.Remove(ctx, in.RegistryID); err != nil {
				return nil, err
			}
			return map[string]bool{"removed": true}, nil
		},
	})

	reg.Register(procedure.Procedure{
		Name:        "registry.testRegistry",
		Kind:        procedure.KindMutation,
		InputSchema: idSchema,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			var in struct {
				RegistryID string `json:"registryId"`
			}
			if err := procedure.DecodeInput(input, &in); err != nil {
				return nil, procedure.BadRequest("Invalid input")
			}
			if err := s.TestConnection(ctx, in.RegistryID); err != nil {
				return nil, err
			}
			return map[string]bool{"ok": true}, nil
		},
	})
}
