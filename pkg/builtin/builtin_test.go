package builtin_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yaklabco/emmm/pkg/builtin"
	"github.com/yaklabco/emmm/pkg/doc"
	"github.com/yaklabco/emmm/pkg/message"
	"github.com/yaklabco/emmm/pkg/parser"
)

func parseDefault(t *testing.T, src string) *doc.Document {
	t.Helper()
	return parser.ParseString("test", src, builtin.NewContext())
}

func strippedDump(d *doc.Document) string {
	return doc.DumpBlocks(d.ToStripped().Root.Content)
}

func TestInlineShorthand_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "plain body",
			src:  "[-inline-shorthand p] 123\n\np",
			want: "paragraph\n" +
				"  text \"123\"\n",
		},
		{
			name: "marker shorthand expands to nothing",
			src:  "[-inline-shorthand p;]\n\np",
			want: "paragraph\n",
		},
		{
			name: "argument through the interpolator",
			src:  "[-inline-shorthand p:x:p][/print $(x)]\n\np1p",
			want: "paragraph\n" +
				"  text \"1\"\n",
		},
		{
			name: "argument surfaces as a modifier",
			src:  "[-inline-shorthand p:x:p][/$x]\n\np1p",
			want: "paragraph\n" +
				"  text \"1\"\n",
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			d := parseDefault(t, testCase.src)
			if len(d.Messages) != 0 {
				t.Fatalf("unexpected messages: %v", d.Messages)
			}
			if diff := cmp.Diff(testCase.want, strippedDump(d)); diff != "" {
				t.Errorf("stripped tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInlineShorthand_SlotContent(t *testing.T) {
	t.Parallel()

	src := "[-inline-shorthand ~:(inner):~][/emph][/inner;][;]\n\na ~wow~ b"
	d := parseDefault(t, src)
	if len(d.Messages) != 0 {
		t.Fatalf("unexpected messages: %v", d.Messages)
	}
	want := "paragraph\n" +
		"  text \"a \"\n" +
		"  inline emph\n" +
		"    text \"wow\"\n" +
		"  text \" b\"\n"
	if diff := cmp.Diff(want, strippedDump(d)); diff != "" {
		t.Errorf("stripped tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockShorthand_SlotContent(t *testing.T) {
	t.Parallel()

	src := "[-block-shorthand >>:(body)]\n[.quote]\n[.body;]\n\n>> important"
	d := parseDefault(t, src)
	if len(d.Messages) != 0 {
		t.Fatalf("unexpected messages: %v", d.Messages)
	}
	want := "block quote\n" +
		"  paragraph\n" +
		"    text \"important\"\n"
	if diff := cmp.Diff(want, strippedDump(d)); diff != "" {
		t.Errorf("stripped tree mismatch (-want +got):\n%s", diff)
	}
}

func TestVar_InterpolatesInArguments(t *testing.T) {
	t.Parallel()

	d := parseDefault(t, "[-var greet:hi]\n[/print $(greet)] and [/print $greet]")
	if len(d.Messages) != 0 {
		t.Fatalf("unexpected messages: %v", d.Messages)
	}
	want := "paragraph\n" +
		"  text \"hi\"\n" +
		"  text \" and \"\n" +
		"  text \"hi\"\n"
	if diff := cmp.Diff(want, strippedDump(d)); diff != "" {
		t.Errorf("stripped tree mismatch (-want +got):\n%s", diff)
	}
}

func TestVar_RedefinitionReportsCollision(t *testing.T) {
	t.Parallel()

	d := parseDefault(t, "[-var a:1]\n[-var a:2]")
	found := false
	for _, m := range d.Messages {
		if m.Unwrap().Code == message.CodeNameAlreadyDefined {
			found = true
		}
	}
	if !found {
		t.Errorf("expected NameAlreadyDefined, got %v", d.Messages)
	}
}

func TestDefineInline_ParameterModifier(t *testing.T) {
	t.Parallel()

	d := parseDefault(t, "[-define-inline wrap:x]\n*[/$x]*\n\n[/wrap:9]")
	if len(d.Messages) != 0 {
		t.Fatalf("unexpected messages: %v", d.Messages)
	}
	want := "paragraph\n" +
		"  text \"*\"\n" +
		"  text \"9\"\n" +
		"  text \"*\"\n"
	if diff := cmp.Diff(want, strippedDump(d)); diff != "" {
		t.Errorf("stripped tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDefineInline_CollisionWithLibrary(t *testing.T) {
	t.Parallel()

	d := parseDefault(t, "[-define-inline bold]\nx")
	found := false
	for _, m := range d.Messages {
		if m.Unwrap().Code == message.CodeNameAlreadyDefined {
			found = true
		}
	}
	if !found {
		t.Errorf("expected NameAlreadyDefined, got %v", d.Messages)
	}
}

func TestDefineBlock_SlotBindsInvocationContent(t *testing.T) {
	t.Parallel()

	src := "[-define-block box:(content)]\n" +
		":--\n" +
		"[.quote]\n" +
		"[.content;]\n" +
		"--:\n" +
		"\n" +
		"[.box]\n" +
		"hello"
	d := parseDefault(t, src)
	if len(d.Messages) != 0 {
		t.Fatalf("unexpected messages: %v", d.Messages)
	}
	want := "block quote\n" +
		"  paragraph\n" +
		"    text \"hello\"\n"
	if diff := cmp.Diff(want, strippedDump(d)); diff != "" {
		t.Errorf("stripped tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDefineBlock_ArgumentCountMismatch(t *testing.T) {
	t.Parallel()

	d := parseDefault(t, "[-define-block pair:a:b]\n[/$a]-[/$b]\n\n[.pair:1;]")
	found := false
	for _, m := range d.Messages {
		if m.Unwrap().Code == message.CodeArgumentCountMismatch {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ArgumentCountMismatch, got %v", d.Messages)
	}
}

func TestStripped_HasNoSystemModifiers(t *testing.T) {
	t.Parallel()

	d := parseDefault(t, "[-var a:1]\n[-inline-shorthand p] x\n\np")
	stripped := d.ToStripped()
	for _, n := range stripped.Root.Content {
		if n.Type() == doc.SystemModifierType {
			t.Error("stripped tree still contains a system modifier")
		}
	}
}

func TestSetVariable_PresetsBeforeParse(t *testing.T) {
	t.Parallel()

	cxt := builtin.NewContext()
	builtin.SetVariable(cxt, "title", "Deep Water")
	d := parser.ParseString("test", "[/print $(title)]", cxt)
	if len(d.Messages) != 0 {
		t.Fatalf("unexpected messages: %v", d.Messages)
	}
	want := "paragraph\n" +
		"  text \"Deep Water\"\n"
	if diff := cmp.Diff(want, strippedDump(d)); diff != "" {
		t.Errorf("stripped tree mismatch (-want +got):\n%s", diff)
	}
}
