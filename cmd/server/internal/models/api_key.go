package models

import (
	"context"
	"fmt"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agentgraph/platform-api/internal/config"
)

type Permissions struct {
	Graphs     bool `json:"graphs"`
	Executions bool `json:"executions"`
	Admin      bool `json:"admin"`
}

type APIKey struct {
	Token string // argon2id hash
	Note  string // will be logged nonsensitive
	Model
	Permissions Permissions `gorm:"type:jsonb;serializer:json"`
	Active      datatypes.Null[bool]
}

func (APIKey) TableName() string {
	return "platform.api_key"
}

func (k APIKey) GetID() uuid.UUID {
	return k.ID
}

// Config is the authoritative api keys
//
// 1. Upsert key data
// 2. Disable keys not currently contained in the config
func LoadAPIKeysFromConfig(ctx context.Context, db *gorm.DB, clients []config.Client) error {
	ctx, span := tracer.Start(ctx, "LoadAPIKeysFromConfig")
	defer span.End()

	db = db.WithContext(ctx)

	keysToUpsert := make([]*APIKey, len(clients))
	keysInConfig := make([]uuid.UUID, len(clients))
	for i, client := range clients {
		hash, err := argon2id.CreateHash(client.APIKey.Token, argon2id.DefaultParams)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "error creating hash for api key")
			span.SetAttributes(attribute.String("failedClient", client.ID))
			return err
		}

		clientID, err := uuid.Parse(client.ID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "error parsing client id")
			span.SetAttributes(attribute.String("failedClient", client.ID))
			return err
		}

		newModel := APIKey{
			Model: Model{
				ID: clientID,
			},
			Token:  hash,
			Note:   client.Note,
			Active: NewNull(client.APIKey.Active),
			Permissions: Permissions{
				Graphs:     client.APIKey.Permissions.Graphs,
				Executions: client.APIKey.Permissions.Executions,
				Admin:      client.APIKey.Permissions.Admin,
			},
		}

		keysToUpsert[i] = &newModel
		keysInConfig[i] = newModel.ID
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		//nolint:govet // shadow: intentionally shadow ctx and span to avoid using the incorrect one.
		ctx, span := tracer.Start(ctx, "LoadAPIKeysFromConfig/Transaction")
		defer span.End()

		tx = tx.WithContext(ctx)

		if len(keysToUpsert) != 0 {
			span.AddEvent("upserting defined api keys")
			result := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(keysToUpsert)
			if result.Error != nil {
				span.RecordError(result.Error)
				span.SetStatus(codes.Error, "failed to upsert defined api keys")
				return fmt.Errorf("failed to upsert defined api keys: %w", result.Error)
			}
		}

		span.AddEvent("disabling api keys missing from the config")
		result := tx.Model(&APIKey{}).
			Where("id NOT IN ?", keysInConfig).
			Update("active", false)
		if result.Error != nil {
			span.RecordError(result.Error)
			span.SetStatus(codes.Error, "failed to disable unknown api keys")
			return fmt.Errorf("failed to disable unknown api keys: %w", result.Error)
		}

		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "api key load transaction failed")
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "loaded api keys from config")
	return nil
}
