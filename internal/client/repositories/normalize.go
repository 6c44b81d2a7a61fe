// Package repositories holds the remote repositories of the storefront client
// (one sub-package per domain) and the error normalization they share.
//
// Repositories never return a raw transport error. Every failure leaves as a
// *common.UserError whose Kind is one of the common sentinels and whose
// message can be shown to the user as is.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/common"
)

const (
	MsgUnavailable = "Cannot connect to server. Check your internet connection."
	MsgTimeout     = "Request timeout. Please try again."
	MsgBadResponse = "Unexpected response from server. Please try again."
	MsgServer      = "Server error. Please try again later."
)

// Messages overrides the default copy for one operation.
type Messages struct {
	// Status maps an HTTP status to its message.
	Status map[int]string
	// Fallback is used for statuses without an entry. A %d verb, if
	// present, receives the status code.
	Fallback string
	// Unavailable and Timeout replace the transport messages.
	Unavailable string
	Timeout     string
}

var defaultStatus = map[int]string{
	http.StatusBadRequest:   "Invalid data",
	http.StatusUnauthorized: "Authentication failed. Please login again.",
	http.StatusForbidden:    "You don't have permission to do that",
	http.StatusNotFound:     "Not found. It may have been already removed.",
	http.StatusConflict:     "Already exists",
}

// KindForStatus maps an HTTP status to a common sentinel.
func KindForStatus(code int) error {
	switch {
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return common.ErrInvalidData
	case code == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case code == http.StatusForbidden:
		return common.ErrForbidden
	case code == http.StatusNotFound:
		return common.ErrNotFound
	case code == http.StatusConflict:
		return common.ErrConflict
	case code >= 500:
		return common.ErrServer
	default:
		return common.ErrUnknown
	}
}

// Normalize turns an API client error into a *common.UserError. nil stays
// nil; errors that already are user errors and context cancellation pass
// through unchanged.
func Normalize(err error, m Messages) error {
	if err == nil {
		return nil
	}
	var ue *common.UserError
	if errors.As(err, &ue) || errors.Is(err, context.Canceled) {
		return err
	}

	if code := client.StatusCode(err); code != 0 {
		return common.NewUserError(KindForStatus(code), m.statusMessage(code), err)
	}

	switch {
	case errors.Is(err, client.ErrTimeout):
		return common.NewUserError(common.ErrNetwork, pick(m.Timeout, MsgTimeout), err)
	case errors.Is(err, client.ErrUnavailable):
		return common.NewUserError(common.ErrNetwork, pick(m.Unavailable, MsgUnavailable), err)
	case errors.Is(err, client.ErrUnauthorized):
		return common.NewUserError(common.ErrUnauthorized, m.statusMessage(http.StatusUnauthorized), err)
	case errors.Is(err, client.ErrBadResponse):
		return common.NewUserError(common.ErrUnknown, MsgBadResponse, err)
	}
	return common.NewUserError(common.ErrUnknown, "Something went wrong. Please try again.", err)
}

func (m Messages) statusMessage(code int) string {
	if msg, ok := m.Status[code]; ok {
		return msg
	}
	if m.Fallback != "" {
		if strings.Contains(m.Fallback, "%d") {
			return fmt.Sprintf(m.Fallback, code)
		}
		return m.Fallback
	}
	if msg, ok := defaultStatus[code]; ok {
		return msg
	}
	if code >= 500 {
		return MsgServer
	}
	return fmt.Sprintf("Request failed: HTTP %d", code)
}

func pick(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
