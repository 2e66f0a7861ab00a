package errors

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestWrapNilIsNil(t *testing.T) {
	if Wrap(IOFailure, "encode", "/x", nil) != nil {
		t.Fatal("wrapping nil must stay nil")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	err := Wrap(InputMissing, "stat", "/shoot", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatal("expected cause to survive unwrapping")
	}
	if KindOf(err) != InputMissing {
		t.Fatalf("unexpected kind: %v", KindOf(err))
	}
}

func TestKindOfForeignError(t *testing.T) {
	if KindOf(errors.New("plain")) != Internal {
		t.Fatal("foreign errors classify as internal")
	}
}

func TestUserMessagePerKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{Wrap(InputMissing, "stat", "/shoot", errors.New("x")), "Input not usable: /shoot"},
		{Wrap(DecodeFailure, "decode", "/shoot/a.dng", errors.New("x")), "RAW decode failed: /shoot/a.dng"},
		{Wrap(ExternalTool, "assemble", "/out.mp4", errors.New("exit status 1")), "External encoder failed"},
		{Wrap(InvalidConfig, "preset", "p.toml", errors.New("bad toml")), "Invalid configuration"},
		{errors.New("plain"), "plain"},
	}
	for _, tc := range cases {
		if got := UserMessage(tc.err); !strings.Contains(got, tc.want) {
			t.Fatalf("UserMessage(%v) = %q, want substring %q", tc.err, got, tc.want)
		}
	}
}
