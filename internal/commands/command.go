package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/dayly/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeDone    Type = "done"
	TypeUndo    Type = "undo"
	TypeRemove  Type = "remove"
	TypeSummary Type = "summary"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeUnknownTarget   ErrorCode = "unknown_target"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title    string
	Interval model.Interval
}

// TargetArgs names an activity by 1-based position or by ID.
type TargetArgs struct {
	Target string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeUndo, TypeRemove:
		return parseTarget(input, Type(head), args)
	case TypeSummary:
		return Command{Type: TypeSummary, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd accepts "<title> HH:MM-HH:MM" or "<title> HH:MM HH:MM".
func parseAdd(raw string, args []string) (Command, error) {
	usage := &CommandError{Code: ErrCodeInvalidArgument, Message: "usage: add <title> HH:MM-HH:MM"}
	if len(args) < 2 {
		return Command{}, usage
	}

	var startRaw, endRaw string
	var titleParts []string
	last := args[len(args)-1]
	if s, e, ok := splitRange(last); ok {
		startRaw, endRaw = s, e
		titleParts = args[:len(args)-1]
	} else if len(args) >= 3 {
		startRaw, endRaw = args[len(args)-2], last
		titleParts = args[:len(args)-2]
	} else {
		return Command{}, usage
	}

	title := strings.TrimSpace(strings.Join(titleParts, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	start, err := model.ParseClock(startRaw)
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("start time %q: %v", startRaw, err)}
	}
	end, err := model.ParseClock(endRaw)
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("end time %q: %v", endRaw, err)}
	}
	interval, err := model.NewInterval(start, end)
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title, Interval: interval}}, nil
}

func splitRange(token string) (string, string, bool) {
	for _, sep := range []string{"–", "-"} {
		if s, e, ok := strings.Cut(token, sep); ok && s != "" && e != "" {
			return s, e, true
		}
	}
	return "", "", false
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires exactly one target", typ)}
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{Target: args[0]}}, nil
}

// ResolveTarget maps a full ID, a unique ID prefix of at least four
// characters, or a 1-based position to an activity ID within items. IDs
// win over positions so a printed short ID never resolves to another row.
func ResolveTarget(target string, items []model.Activity) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", &CommandError{Code: ErrCodeInvalidArgument, Message: "target is empty"}
	}

	match := ""
	for _, a := range items {
		if a.ID == target {
			return a.ID, nil
		}
		if len(target) >= 4 && strings.HasPrefix(a.ID, target) {
			if match != "" {
				return "", &CommandError{Code: ErrCodeUnknownTarget, Message: fmt.Sprintf("ambiguous id prefix %q", target)}
			}
			match = a.ID
		}
	}
	if match != "" {
		return match, nil
	}

	if pos, err := strconv.Atoi(target); err == nil {
		if pos < 1 || pos > len(items) {
			return "", &CommandError{Code: ErrCodeUnknownTarget, Message: fmt.Sprintf("position %d out of range 1..%d", pos, len(items))}
		}
		return items[pos-1].ID, nil
	}
	return "", &CommandError{Code: ErrCodeUnknownTarget, Message: fmt.Sprintf("no activity matches %q", target)}
}
