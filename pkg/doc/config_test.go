package doc_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yaklabco/emmm/pkg/doc"
)

func TestRegistry_AddGetRemove(t *testing.T) {
	t.Parallel()

	cfg := doc.NewConfiguration()
	em := &doc.InlineDefinition{Name: "em"}
	emph := &doc.InlineDefinition{Name: "emph"}
	cfg.InlineModifiers.Add(em)
	cfg.InlineModifiers.Add(emph)

	if !cfg.InlineModifiers.Has("em") || !cfg.InlineModifiers.Has("emph") {
		t.Fatal("expected both definitions registered")
	}
	if got, _ := cfg.InlineModifiers.Get("em"); got != em {
		t.Error("Get returned the wrong definition")
	}
	if diff := cmp.Diff([]string{"em", "emph"}, cfg.InlineModifiers.Names()); diff != "" {
		t.Errorf("names out of insertion order (-want +got):\n%s", diff)
	}

	if !cfg.InlineModifiers.Remove("em") {
		t.Error("Remove should report success")
	}
	if cfg.InlineModifiers.Has("em") {
		t.Error("definition should be gone after Remove")
	}
	if cfg.InlineModifiers.Remove("em") {
		t.Error("second Remove should report failure")
	}
}

func TestRegistry_ReplaceKeepsOrder(t *testing.T) {
	t.Parallel()

	cfg := doc.NewConfiguration()
	cfg.BlockModifiers.Add(&doc.BlockDefinition{Name: "a"})
	cfg.BlockModifiers.Add(&doc.BlockDefinition{Name: "b"})

	replacement := &doc.BlockDefinition{Name: "a", RoleHint: "v2"}
	cfg.BlockModifiers.Add(replacement)

	if diff := cmp.Diff([]string{"a", "b"}, cfg.BlockModifiers.Names()); diff != "" {
		t.Errorf("replacement must keep position (-want +got):\n%s", diff)
	}
	if got, _ := cfg.BlockModifiers.Get("a"); got != replacement {
		t.Error("expected the replacement definition")
	}
}

func TestConfiguration_OnChangeFires(t *testing.T) {
	t.Parallel()

	cfg := doc.NewConfiguration()
	fired := 0
	cfg.SetOnChange(func() { fired++ })

	cfg.BlockModifiers.Add(&doc.BlockDefinition{Name: "x"})
	cfg.ArgumentInterpolators.Add(&doc.InterpolatorDefinition{Name: "$("})
	cfg.InlineShorthands.Add(&doc.InlineShorthand{Name: "p"})
	cfg.BlockModifiers.Remove("x")

	if fired != 4 {
		t.Errorf("expected 4 change notifications, got %d", fired)
	}
}

func TestFrom_ClonesAreIndependent(t *testing.T) {
	t.Parallel()

	orig := doc.NewConfiguration()
	orig.InlineModifiers.Add(&doc.InlineDefinition{Name: "shared"})
	orig.ReparseDepthLimit = 7

	clone := doc.From(orig)

	if !clone.InlineModifiers.Has("shared") {
		t.Fatal("clone must carry existing definitions")
	}
	if clone.ReparseDepthLimit != 7 {
		t.Errorf("clone must carry the depth limit, got %d", clone.ReparseDepthLimit)
	}

	orig.InlineModifiers.Add(&doc.InlineDefinition{Name: "onlyOrig"})
	clone.InlineModifiers.Add(&doc.InlineDefinition{Name: "onlyClone"})

	if clone.InlineModifiers.Has("onlyOrig") {
		t.Error("mutation of the original leaked into the clone")
	}
	if orig.InlineModifiers.Has("onlyClone") {
		t.Error("mutation of the clone leaked into the original")
	}
}

func TestFrom_CloneDoesNotNotifyOriginalObserver(t *testing.T) {
	t.Parallel()

	orig := doc.NewConfiguration()
	fired := 0
	orig.SetOnChange(func() { fired++ })

	clone := doc.From(orig)
	clone.BlockModifiers.Add(&doc.BlockDefinition{Name: "x"})

	if fired != 0 {
		t.Errorf("clone mutations must not notify the original, fired %d", fired)
	}
}
