package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeNew     Type = "new"
	TypeOpen    Type = "open"
	TypeDelete  Type = "delete"
	TypeSave    Type = "save"
	TypeReceipt Type = "receipt"
	TypeEvents  Type = "events"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type NewArgs struct {
	Title string
}

type OpenArgs struct {
	Title string
}

type ReceiptArgs struct {
	Enabled bool
}

type Command struct {
	Type    Type
	Raw     string
	New     *NewArgs
	Open    *OpenArgs
	Receipt *ReceiptArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
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
	case TypeNew:
		return parseNew(input, args)
	case TypeOpen:
		return parseOpen(input, args)
	case TypeDelete:
		return Command{Type: TypeDelete, Raw: input}, nil
	case TypeSave:
		return Command{Type: TypeSave, Raw: input}, nil
	case TypeReceipt:
		return parseReceipt(input, args)
	case TypeEvents:
		return Command{Type: TypeEvents, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseNew(raw string, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "new requires a title"}
	}
	return Command{Type: TypeNew, Raw: raw, New: &NewArgs{Title: title}}, nil
}

func parseOpen(raw string, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "open requires a title"}
	}
	return Command{Type: TypeOpen, Raw: raw, Open: &OpenArgs{Title: title}}, nil
}

func parseReceipt(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "receipt requires on or off"}
	}
	switch strings.ToLower(args[0]) {
	case "on":
		return Command{Type: TypeReceipt, Raw: raw, Receipt: &ReceiptArgs{Enabled: true}}, nil
	case "off":
		return Command{Type: TypeReceipt, Raw: raw, Receipt: &ReceiptArgs{Enabled: false}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "receipt requires on or off"}
	}
}
