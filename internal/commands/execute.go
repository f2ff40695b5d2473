package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	New     func(NewArgs) (Result, error)
	Open    func(OpenArgs) (Result, error)
	Delete  func() (Result, error)
	Save    func() (Result, error)
	Receipt func(ReceiptArgs) (Result, error)
	Events  func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeNew:
		if handlers.New == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "new handler not configured"}
		}
		return handlers.New(*cmd.New)
	case TypeOpen:
		if handlers.Open == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "open handler not configured"}
		}
		return handlers.Open(*cmd.Open)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "delete handler not configured"}
		}
		return handlers.Delete()
	case TypeSave:
		if handlers.Save == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "save handler not configured"}
		}
		return handlers.Save()
	case TypeReceipt:
		if handlers.Receipt == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "receipt handler not configured"}
		}
		return handlers.Receipt(*cmd.Receipt)
	case TypeEvents:
		if handlers.Events == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "events handler not configured"}
		}
		return handlers.Events()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
