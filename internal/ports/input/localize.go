package input

import (
	"context"

	"weblocalizer/internal/domain/entities"
)

type LocalizeUseCase interface {
	Run(ctx context.Context, cfg entities.RunConfig) (*entities.RunResult, error)
}
