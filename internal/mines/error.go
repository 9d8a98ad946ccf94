package mines

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig       = errors.New("invalid game config")
	ErrInfeasiblePlacement = errors.New("infeasible mine placement")
)

type ConfigError struct {
	Config Config
	reason string
}

// [ConfigError] implements [error]
func (e *ConfigError) Error() string {
	return fmt.Sprintf(
		"invalid game config %dx%d(%d): %s",
		e.Config.Rows, e.Config.Cols, e.Config.MineCount, e.reason,
	)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// PlacementError means the mines do not fit outside the first-click safe
// zone.
type PlacementError struct {
	MineCount int
	Eligible  int
	Row, Col  int
}

// [PlacementError] implements [error]
func (e *PlacementError) Error() string {
	return fmt.Sprintf(
		"cannot place %d mines outside the safe zone at %d:%d (only %d cells eligible)",
		e.MineCount, e.Row, e.Col, e.Eligible,
	)
}

func (e *PlacementError) Is(target error) bool {
	return target == ErrInfeasiblePlacement
}
