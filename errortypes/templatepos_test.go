package errortypes_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/robfig/flavour/errortypes"
)

func TestIsErrTemplatePos(t *testing.T) {
	var tests = []struct {
		name string
		in   error
		out  bool
	}{
		{
			name: "nil",
			out:  false,
		},
		{
			name: "errors.New",
			in:   errors.New("an error"),
			out:  false,
		},
		{
			name: "new ErrTemplatePos",
			in:   errortypes.NewErrTemplatePosf("main.flavour.json", 1, 2, "message"),
			out:  true,
		},
		{
			name: "wrapped ErrTemplatePos",
			in:   fmt.Errorf("compiling: %w", errortypes.NewErrTemplatePosf("main.flavour.json", 1, 2, "message")),
			out:  true,
		},
	}
	for _, test := range tests {
		got := errortypes.IsErrTemplatePos(test.in)
		if got != test.out {
			t.Errorf("%s: Expected %v, got %v", test.name, test.out, got)
		}
	}
}

func TestToErrTemplatePos(t *testing.T) {
	var tests = []struct {
		name             string
		in               error
		expectNil        bool
		expectedFilename string
		expectedLine     int
		expectedCol      int
		expectedMessage  string
	}{
		{
			name:      "nil",
			expectNil: true,
		},
		{
			name:      "errors.New",
			in:        errors.New("an error"),
			expectNil: true,
		},
		{
			name:             "new ErrTemplatePos",
			in:               errortypes.NewErrTemplatePosf("main.flavour.json", 1, 2, "bad %s", "node"),
			expectedFilename: "main.flavour.json",
			expectedLine:     1,
			expectedCol:      2,
			expectedMessage:  "main.flavour.json:1:2: bad node",
		},
		{
			name:             "wrapped",
			in:               errortypes.WrapTemplatePos("main.flavour.json", 3, 4, io.EOF),
			expectedFilename: "main.flavour.json",
			expectedLine:     3,
			expectedCol:      4,
			expectedMessage:  "main.flavour.json:3:4: EOF",
		},
	}
	for _, test := range tests {
		got := errortypes.ToErrTemplatePos(test.in)
		if test.expectNil {
			if got != nil {
				t.Errorf("%s: expected ErrTemplatePos to be nil", test.name)
			}
			continue
		}
		if got == nil {
			t.Errorf("%s: expected ErrTemplatePos to be non-nil", test.name)
			continue
		}
		if got.File() != test.expectedFilename {
			t.Errorf("%s: expected file '%s', got '%s'", test.name, test.expectedFilename, got.File())
		}
		if got.Line() != test.expectedLine {
			t.Errorf("%s: expected line %d, got %d", test.name, test.expectedLine, got.Line())
		}
		if got.Col() != test.expectedCol {
			t.Errorf("%s: expected col %d, got %d", test.name, test.expectedCol, got.Col())
		}
		if got.Error() != test.expectedMessage {
			t.Errorf("%s: expected message %q, got %q", test.name, test.expectedMessage, got.Error())
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	var err = errortypes.WrapTemplatePos("a", 1, 1, io.EOF)
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected wrapped error to match io.EOF")
	}
	if again := errortypes.WrapTemplatePos("b", 2, 2, err); again != err {
		t.Errorf("expected already-positioned error to be returned unchanged, got %v", again)
	}
}
