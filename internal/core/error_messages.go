package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for reference
// when a run fails. Every run failure is fatal; the code tells the cube
// maintainer which sheet or service to look at.
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Column not found: a required column is missing from the Column List header
//	         Action: Check the Column List header spelling (case-sensitive)
//	         Matched by: *ColumnNotFoundError
//
//	CFG002 - Sheet not found: one of the workbook sheets does not exist
//	         Action: Create the sheet or fix the SHEET_* setting
//	         Matched by: sheet.ErrSheetNotFound
//
// # Change Log Errors (LOG001-LOG099)
//
//	LOG001 - Invalid count: a Change Log count is not 0 or 1
//	         Action: Fix the count on the reported row
//	         Matched by: *InvalidCountError
//
// # Pattern Errors (PAT001-PAT099)
//
//	PAT001 - Invalid pattern: a tag pattern in the Column List does not compile
//	         Action: Fix the regular expression on the reported row
//	         Matched by: *InvalidPatternError
//
// # Card Service Errors (CARD001-CARD099)
//
//	CARD001 - Card not found: Scryfall has no card with that exact name
//	          Action: Check the spelling of the card name in the Change Log
//	          Matched by: *scryfall.NotFoundError
//
//	CARD002 - Card service unavailable: the lookup failed in transit
//	          Action: Check your connection and try again
//	          Matched by: *scryfall.TransportError
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Busy: another run holds the Card List
//	         Action: Wait for the current run to finish
//	         Matched by: ErrRunInProgress
//
//	RUN002 - Cancelled: the run was cancelled
//	         Patterns: "context canceled"
//
//	RUN003 - Timed out: the run exceeded RUN_TIMEOUT
//	         Patterns: "context deadline exceeded"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches; check the application log.
//
// # Matching
//
// Typed errors are matched first with errors.As / errors.Is, so wrapping with
// %w keeps the code. Remaining errors are matched case-insensitively against
// message patterns; the first matching pattern wins.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/PauperCube/internal/scryfall"
	"github.com/JonMunkholm/PauperCube/internal/sheet"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for reference
}

var (
	msgColumnNotFound = UserMessage{
		Message: "A required column is missing from the Column List",
		Action:  "Check the Column List header spelling (case-sensitive)",
		Code:    "CFG001",
	}
	msgSheetNotFound = UserMessage{
		Message: "A workbook sheet does not exist",
		Action:  "Create the sheet or fix the SHEET_* setting",
		Code:    "CFG002",
	}
	msgInvalidCount = UserMessage{
		Message: "A Change Log card count is not 0 or 1",
		Action:  "Fix the count on the reported Change Log row",
		Code:    "LOG001",
	}
	msgInvalidPattern = UserMessage{
		Message: "A tag pattern in the Column List is not a valid regular expression",
		Action:  "Fix the pattern on the reported Column List row",
		Code:    "PAT001",
	}
	msgCardNotFound = UserMessage{
		Message: "No card with that exact name was found",
		Action:  "Check the spelling of the card name in the Change Log",
		Code:    "CARD001",
	}
	msgCardService = UserMessage{
		Message: "The card service could not be reached",
		Action:  "Check your connection and try again",
		Code:    "CARD002",
	}
	msgRunBusy = UserMessage{
		Message: "Another card list run is in progress",
		Action:  "Wait for the current run to finish",
		Code:    "RUN001",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps untyped error text (case-insensitive) to user messages.
// The first matching pattern wins.
var errorPatterns = []errorPattern{
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The run was cancelled",
			Action:  "Start the run again when ready",
			Code:    "RUN002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The run timed out",
			Action:  "Try again, or raise RUN_TIMEOUT for large cubes",
			Code:    "RUN003",
		},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the application log for details",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		colErr   *ColumnNotFoundError
		countErr *InvalidCountError
		patErr   *InvalidPatternError
		nfErr    *scryfall.NotFoundError
		trErr    *scryfall.TransportError
	)
	switch {
	case errors.As(err, &colErr):
		return msgColumnNotFound
	case errors.As(err, &countErr):
		return msgInvalidCount
	case errors.As(err, &patErr):
		return msgInvalidPattern
	case errors.As(err, &nfErr):
		return msgCardNotFound
	case errors.Is(err, ErrRunInProgress):
		return msgRunBusy
	case errors.Is(err, sheet.ErrSheetNotFound):
		return msgSheetNotFound
	}

	// Cancellation wins over transport failure: a cancelled lookup surfaces
	// as a TransportError wrapping context.Canceled.
	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	if errors.As(err, &trErr) {
		return msgCardService
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
