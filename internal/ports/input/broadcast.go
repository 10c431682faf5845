package input

import (
	"context"

	"calbot/internal/domain/entities"
)

type BroadcastUseCase interface {
	CheckNow(ctx context.Context) int
	Status() entities.BroadcastStatus
}

type ImportUseCase interface {
	Import(ctx context.Context, url string) (entities.MergeResult, error)
}
