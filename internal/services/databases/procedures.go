package databases

import (
	"context"

	"github.com/ChasLui/dokploy/internal/db/models"
	"github.com/ChasLui/dokploy/internal/procedure"
)

const idSchema = `{
	"type": "object",
	"properties": {"databaseId": {"type": "string", "minLength": 1}},
	"required": ["databaseId"]
}`

const createSchema = `{
	"type": "object",
	"properties": {
		"appName": {"type": "string", "minLength": 1, "maxLength": 63},
		"dockerImage": {"type": "string"},
		"databaseName": {"type": "string", "minLength": 1},
		"databaseUser": {"type": "string", "minLength": 1},
		"databasePassword": {"type": "string", "minLength": 1}
	},
	"required": ["appName", "databaseName", "databaseUser", "databasePassword"]
}`

const portSchema = `{
	"type": "object",
	"properties": {
		"databaseId": {"type": "string", "minLength": 1},
		"externalPort": {"type": ["integer", "null"], "minimum": 1, "maximum": 65535}
	},
	"required": ["databaseId"]
}`

type idInput struct {
	DatabaseID string `json:"databaseId"`
}

// RegisterProcedures exposes the database operations under both engine
// domains: postgres.* and mariadb.*.
func (s *Service) RegisterProcedures(reg *procedure.Registry) {
	s.registerEngine(reg, "postgres", models.EnginePostgres)
	s.registerEngine(reg, "mariadb", models.EngineMariaDB)
}

func (s *Service) registerEngine(reg *procedure.Registry, domain string, engine models.DatabaseEngine) {
	reg.Register(procedure.Procedure{
		Name:        domain + ".create",
		Kind:        procedure.KindMutation,
		InputSchema: createSchema,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			var in CreateInput
			if err := procedure.DecodeInput(input, &in); err != nil {
				return nil, procedure.BadRequest("Invalid input")
			}
			return s.Create(ctx, engine, in)
		},
	})

	reg.Register(procedure.Procedure{
		Name:        domain + ".one",
		Kind:        procedure.KindQuery,
		InputSchema: idSchema,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			var in idInput
			if err := procedure.DecodeInput(input, &in); err != nil {
				return nil, procedure.BadRequest("Invalid input")
			}
			return s.One(ctx, engine, in.DatabaseID)
		},
	})

	reg.Register(procedure.Procedure{
		Name:        domain + ".start",
		Kind:        procedure.KindMutation,
		InputSchema: idSchema,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			var in idInput
			if err := procedure.DecodeInput(input, &in); err != nil {
				return nil, procedure.BadRequest("Invalid input")
			}
			return s.Start(ctx, engine, in.DatabaseID)
		},
	})

	reg.Register(procedure.Procedure{
		Name:        domain + ".stop",
		Kind:        procedure.KindMutation,
		InputSchema: idSchema,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			var in idInput
			if err := procedure.DecodeInput(input, &in); err != nil {
				return nil, procedure.BadRequest("Invalid input")
			}
			return s.Stop(ctx, engine, in.DatabaseID)
		},
	})

	reg.Register(procedure.Procedure{
		Name:        domain + ".credentials",
		Kind:        procedure.KindQuery,
		InputSchema: idSchema,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			var in idInput
			if err := procedure.DecodeInput(input, &in); err != nil {
				return nil, procedure.BadRequest("Invalid input")
			}
			return s.GetCredentials(ctx, engine, in.DatabaseID)
		},
	})

	reg.Register(procedure.Procedure{
		Name:        domain + ".saveExternalPort",
		Kind:        procedure.KindMutation,
		InputSchema: portSchema,
		Handler: func(ctx context.Context, input map[string]interface{}) (interface{}, error) {
			var in struct {
				DatabaseID   string `json:"databaseId"`
				ExternalPort *int   `json:"externalPort"`
			}
			if err := procedure.DecodeInput(input, &in); err != nil {
				return nil, procedure.BadRequest("Invalid input")
			}
			return s.SaveExternalPort(ctx, engine, in.DatabaseID, in.ExternalPort)
		},
	})
}
