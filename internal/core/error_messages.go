package core

// error_messages.go maps technical errors to user-friendly messages with
// codes users can quote to support staff.
//
// Codes by category:
//
//	FILE001 - Unsupported file type: extension is not .csv or .xlsx
//	FILE002 - Invalid file: the file could not be parsed
//	FILE003 - Empty file: no rows to import
//	FILE004 - File too large: exceeds the per-file size limit
//	FILE005 - Incomplete upload: one or more of the three files is missing
//
//	IMP001 - System busy: too many imports in progress
//	IMP002 - Request cancelled
//	IMP003 - Request timeout
//
//	RULE001 - Unknown rule type
//	RULE002 - Invalid rule parameters
//
//	REC001 - Record not found
//	KIND001 - Unknown entity kind
//	FMT001  - Unknown export format
//	FND001  - Finding not found / invalid severity
//
//	SRCH001 - Search superseded by a newer query
//	RATE001 - Rate limited
//	ERR000  - Fallback for anything unmatched
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "This file type is not supported",
			Action:  "Upload a .csv or .xlsx file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The file is not a valid CSV",
			Action:  "Ensure the file is comma-separated with a header row",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid xlsx",
		msg: UserMessage{
			Message: "The file is not a valid spreadsheet",
			Action:  "Re-save the workbook as .xlsx and try again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a file with a header row and data rows",
			Code:    "FILE003",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The file exceeds the size limit",
			Action:  "Split the file into smaller uploads",
			Code:    "FILE004",
		},
	},
	{
		pattern: "incomplete upload",
		msg: UserMessage{
			Message: "All three files are required: clients, workers and tasks",
			Action:  "Attach the missing file(s) and upload again",
			Code:    "FILE005",
		},
	},
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "Too many imports in progress",
			Action:  "Please wait a moment and try again",
			Code:    "IMP001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "IMP002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try smaller files or check your connection",
			Code:    "IMP003",
		},
	},
	{
		pattern: "unknown rule type",
		msg: UserMessage{
			Message: "The rule type is not recognized",
			Action:  "Use one of: coRun, slotRestriction, loadLimit, phaseWindow, patternMatch, precedenceOverride",
			Code:    "RULE001",
		},
	},
	{
		pattern: "invalid rule",
		msg: UserMessage{
			Message: "The rule parameters are invalid",
			Action:  "Check the rule's required parameters and try again",
			Code:    "RULE002",
		},
	},
	{
		pattern: "rule not found",
		msg: UserMessage{
			Message: "The rule does not exist",
			Action:  "Refresh the rule list; it may have been deleted",
			Code:    "RULE003",
		},
	},
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "The record does not exist",
			Action:  "Refresh the grid; the data may have been re-imported",
			Code:    "REC001",
		},
	},
	{
		pattern: "unknown entity kind",
		msg: UserMessage{
			Message: "The entity kind is not recognized",
			Action:  "Use clients, workers or tasks",
			Code:    "KIND001",
		},
	},
	{
		pattern: "unknown export format",
		msg: UserMessage{
			Message: "The export format is not recognized",
			Action:  "Use csv, xlsx or json",
			Code:    "FMT001",
		},
	},
	{
		pattern: "finding not found",
		msg: UserMessage{
			Message: "The finding does not exist",
			Action:  "Refresh the findings list",
			Code:    "FND001",
		},
	},
	{
		pattern: "invalid severity",
		msg: UserMessage{
			Message: "The finding severity is not recognized",
			Action:  "Use error, warning or info",
			Code:    "FND002",
		},
	},
	{
		pattern: "superseded by a newer query",
		msg: UserMessage{
			Message: "A newer search replaced this one",
			Action:  "Use the latest search result",
			Code:    "SRCH001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// MapError converts a technical error to a user-friendly message. Unmatched
// errors get the ERR000 fallback; callers should log the original error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{Message: "Success", Code: ""}
	}

	lowered := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(lowered, ep.pattern) {
			return ep.msg
		}
	}

	return UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact support",
		Code:    "ERR000",
	}
}

// MapErrorWithDetail behaves like MapError but appends sanitized detail for
// contexts where the technical message is safe to show.
func MapErrorWithDetail(err error) UserMessage {
	msg := MapError(err)
	if err != nil && msg.Code == "ERR000" {
		msg.Message = fmt.Sprintf("%s (%s)", msg.Message, firstLine(err.Error()))
	}
	return msg
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
