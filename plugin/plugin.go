package plugin

import (
	"context"
	"go-reconx/models"
)

// Plugin defines a single scan stage run against a target.
type Plugin interface {
	Name() string
	Run(ctx context.Context, target *models.TargetInfo) (*models.DTO, error)
}
