package message_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/emmm/pkg/message"
	"github.com/yaklabco/emmm/pkg/source"
)

func TestCode_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code     message.Code
		expected string
	}{
		{message.CodeExpected, "Expected"},
		{message.CodeUnknownModifier, "UnknownModifier"},
		{message.CodeUnclosedInlineModifier, "UnclosedInlineModifier"},
		{message.CodeUnnecessaryNewline, "UnnecessaryNewline"},
		{message.CodeNewBlockShouldBeOnNewline, "NewBlockShouldBeOnNewline"},
		{message.CodeContentShouldBeOnNewline, "ContentShouldBeOnNewline"},
		{message.CodeInvalidArgument, "InvalidArgument"},
		{message.CodeArgumentCountMismatch, "ArgumentCountMismatch"},
		{message.CodeNameAlreadyDefined, "NameAlreadyDefined"},
		{message.CodeReachedReparseLimit, "ReachedReparseLimit"},
		{message.CodeReferred, "Referred"},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.expected, func(t *testing.T) {
			t.Parallel()

			if testCase.code.String() != testCase.expected {
				t.Errorf("expected %q, got %q", testCase.expected, testCase.code.String())
			}
		})
	}
}

func TestReferred_ChainKeepsSeverityAndUnwraps(t *testing.T) {
	t.Parallel()

	desc := source.NewDescriptor("test")
	inner := message.UnknownModifier(source.NewRange(desc, 10, 14), "nope")
	site1 := source.NewRange(desc, 2, 6)
	site2 := source.NewRange(desc, 0, 1)

	wrapped := message.Referred(message.Referred(inner, site1), site2)

	if wrapped.Code != message.CodeReferred {
		t.Errorf("expected Referred code, got %v", wrapped.Code)
	}
	if wrapped.Severity != message.SeverityError {
		t.Error("referred wrapper must keep the inner severity")
	}
	if wrapped.Location != site2 {
		t.Error("outer wrapper must carry the outer site")
	}
	if wrapped.Refers.Location != site1 {
		t.Error("inner wrapper must carry the inner site")
	}
	if wrapped.Unwrap() != inner {
		t.Error("Unwrap must reach the original message")
	}
}

func TestFixSuggestion_ApplyIsPure(t *testing.T) {
	t.Parallel()

	fix := message.FixSuggestion{
		Info: "insert a closing bracket",
		Apply: func(src string, cursor int) (string, int) {
			return src[:cursor] + "]" + src[cursor:], cursor + 1
		},
	}

	src, cursor := fix.Apply("[.q", 3)
	if src != "[.q]" || cursor != 4 {
		t.Errorf("unexpected edit result: %q, %d", src, cursor)
	}
}

func TestMessage_String(t *testing.T) {
	t.Parallel()

	desc := source.NewDescriptor("test")
	m := message.Expected(source.NewRange(desc, 3, 3), "]")
	if !strings.Contains(m.String(), "Expected") {
		t.Errorf("String should mention the code, got %q", m.String())
	}
}
