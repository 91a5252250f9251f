package tui

import (
	"context"

	"github.com/akyairhashvil/sprintctl/internal/service"
)

// BoardSource defines the data the board view requires.
//
//go:generate mockgen -source=source.go -destination=mock_board_source_test.go -package=tui
type BoardSource interface {
	SprintBoard(ctx context.Context, projectID int64) (service.Board, error)
}
