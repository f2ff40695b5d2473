package commands

import (
	"errors"
	"testing"
)

func TestParseNew(t *testing.T) {
	cmd, err := Parse("/new Grocery list")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Type != TypeNew || cmd.New == nil || cmd.New.Title != "Grocery list" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestParseReceiptToggle(t *testing.T) {
	on, err := Parse("receipt on")
	if err != nil {
		t.Fatalf("parse on: %v", err)
	}
	if on.Receipt == nil || !on.Receipt.Enabled {
		t.Fatalf("unexpected command: %+v", on)
	}

	off, err := Parse("/receipt OFF")
	if err != nil {
		t.Fatalf("parse off: %v", err)
	}
	if off.Receipt == nil || off.Receipt.Enabled {
		t.Fatalf("unexpected command: %+v", off)
	}

	if _, err := Parse("/receipt maybe"); err == nil {
		t.Fatal("expected error for bad argument")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		input string
		code  ErrorCode
	}{
		{"", ErrCodeEmptyInput},
		{"/", ErrCodeEmptyInput},
		{"/frobnicate", ErrCodeUnknownCommand},
		{"/new", ErrCodeInvalidArgument},
		{"/open   ", ErrCodeInvalidArgument},
	}
	for _, tc := range cases {
		_, err := Parse(tc.input)
		if err == nil {
			t.Fatalf("%q: expected error", tc.input)
		}
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) || cmdErr.Code != tc.code {
			t.Fatalf("%q: expected code %s, got %v", tc.input, tc.code, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/save")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	called := false
	res, err := Execute(cmd, Handlers{
		Save: func() (Result, error) {
			called = true
			return Result{Message: "saved"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !called || res.Message != "saved" {
		t.Fatalf("handler not invoked: %+v", res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("/events")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected handler_missing, got %v", err)
	}
}
