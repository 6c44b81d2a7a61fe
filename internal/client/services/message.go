package services

import (
	"context"
	"errors"
	"slices"

	"github.com/dmitrijs2005/storefront/internal/common"
)

// Phase is the lifecycle of an async sub-state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// userMessage is the text stored in a snapshot's Error field.
func userMessage(err error) string {
	var ue *common.UserError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ue):
		return ue.Message
	case errors.Is(err, context.Canceled):
		return "Cancelled"
	default:
		return err.Error()
	}
}

func cloneOrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}
