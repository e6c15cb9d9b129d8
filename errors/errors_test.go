package errors

import (
	"fmt"
	"testing"

	pkgerr "github.com/pkg/errors"
)

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind      *Error
		err       error
		wantMatch bool
	}{
		"instance of the same root": {
			kind:      ErrNotFound,
			err:       ErrNotFound,
			wantMatch: true,
		},
		"wrapped root": {
			kind:      ErrNotFound,
			err:       Wrap(ErrNotFound, "gone"),
			wantMatch: true,
		},
		"double wrapped root": {
			kind:      ErrNotFound,
			err:       Wrap(Wrap(ErrNotFound, "gone"), "still gone"),
			wantMatch: true,
		},
		"different root": {
			kind:      ErrNotFound,
			err:       Wrap(ErrDuplicate, "exists"),
			wantMatch: false,
		},
		"stdlib error": {
			kind:      ErrNotFound,
			err:       fmt.Errorf("not found"),
			wantMatch: false,
		},
		"nil error": {
			kind:      ErrNotFound,
			err:       nil,
			wantMatch: false,
		},
		"nil kind matches nil error": {
			kind:      nil,
			err:       nil,
			wantMatch: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantMatch {
				t.Fatalf("unexpected match result: %v", got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "all good"); err != nil {
		t.Fatalf("wrapping nil must return nil, got %+v", err)
	}
}

func TestWrappedErrorMessage(t *testing.T) {
	err := Wrap(ErrState, "already closed")
	const want = "already closed: invalid state"
	if got := err.Error(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestCode(t *testing.T) {
	cases := map[string]struct {
		err      error
		wantCode uint32
	}{
		"nil":          {err: nil, wantCode: 0},
		"root":         {err: ErrUnauthorized, wantCode: 2},
		"wrapped root": {err: Wrap(ErrUnauthorized, "nope"), wantCode: 2},
		"double wrapped root": {
			err:      Wrap(Wrap(ErrUnauthorized, "nope"), "still nope"),
			wantCode: 2,
		},
		"stdlib": {err: fmt.Errorf("boom"), wantCode: internalCode},
		"wrapped stdlib": {
			err:      Wrap(fmt.Errorf("boom"), "ctx"),
			wantCode: internalCode,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := Code(tc.err); got != tc.wantCode {
				t.Fatalf("want code %d, got %d", tc.wantCode, got)
			}
		})
	}
}

func TestWrapperReportsRootCode(t *testing.T) {
	// Wrap attaches a stack trace layer between the wrapper and the
	// root, which must not hide the root code from the coder interface.
	err := Wrap(ErrNotFound, "gone")
	c, ok := err.(interface{ Code() uint32 })
	if !ok {
		t.Fatal("wrapped error must expose a code")
	}
	if got := c.Code(); got != ErrNotFound.Code() {
		t.Fatalf("want code %d, got %d", ErrNotFound.Code(), got)
	}
}

func TestRegisterDuplicatedCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("reusing an error code must panic")
		}
	}()
	Register(ErrNotFound.Code(), "not found again")
}

func TestStackTraceAttachedOnce(t *testing.T) {
	err := Wrap(ErrInput, "inner")
	st := stackTrace(err)
	if st == nil {
		t.Fatal("missing stack trace")
	}
	// Wrapping again must not shadow the original trace.
	outer := Wrap(err, "outer")
	if got := stackTrace(outer); fmt.Sprintf("%v", got) != fmt.Sprintf("%v", st) {
		t.Fatal("stack trace was replaced by outer wrap")
	}
}

func TestWrapForeignStackTrace(t *testing.T) {
	err := Wrap(pkgerr.New("boom"), "ctx")
	if stackTrace(err) == nil {
		t.Fatal("stack trace from the wrapped error must be preserved")
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("oops")
	}
	if err := run(); !ErrPanic.Is(err) {
		t.Fatalf("want ErrPanic, got %+v", err)
	}
}
