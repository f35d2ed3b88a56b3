package background

import (
	"errors"
	"testing"

	"github.com/AltairaLabs/BackdropKit/media"
)

func TestNewRegistry_SeedsProceduralSet(t *testing.T) {
	r := NewRegistry()

	for _, id := range []string{"office", "nature", "space", "beach", "gradient", "abstract"} {
		resolved, ok := r.Resolve(id)
		if !ok {
			t.Fatalf("Procedural background %q missing", id)
		}
		if resolved.Mode != Pixels {
			t.Errorf("%q resolved with mode %v, want Pixels", id, resolved.Mode)
		}
		if resolved.Pix == nil || resolved.Pix.Width != 640 || resolved.Pix.Height != 480 {
			t.Errorf("%q has unexpected buffer", id)
		}
	}
}

func TestRegistry_SentinelsResolveWithoutPixels(t *testing.T) {
	r := NewEmptyRegistry()

	blur, ok := r.Resolve(IDBlur)
	if !ok || blur.Mode != BlurBackground || blur.Pix != nil {
		t.Errorf("blur resolved as %+v, want BlurBackground without pixels", blur)
	}

	none, ok := r.Resolve(IDNone)
	if !ok || none.Mode != PassThrough || none.Pix != nil {
		t.Errorf("none resolved as %+v, want PassThrough without pixels", none)
	}
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Resolve("underwater"); ok {
		t.Error("Unknown id must not resolve")
	}
	// Lookups are case-sensitive exact matches.
	if _, ok := r.Resolve("Office"); ok {
		t.Error("Lookup must be case-sensitive")
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewEmptyRegistry()
	bg := &Background{ID: "city", Kind: KindCustom, Pix: media.NewFrame(2, 2)}

	if err := r.Register(bg); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}
	err := r.Register(&Background{ID: "city", Kind: KindCustom, Pix: media.NewFrame(2, 2)})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Duplicate registration error = %v, want ErrDuplicateID", err)
	}
}

func TestRegistry_RegisterReserved(t *testing.T) {
	r := NewEmptyRegistry()
	for _, id := range []string{IDBlur, IDNone} {
		err := r.Register(&Background{ID: id, Kind: KindCustom})
		if !errors.Is(err, ErrReservedID) {
			t.Errorf("Register(%q) error = %v, want ErrReservedID", id, err)
		}
	}
}

func TestRegistry_IDsOrderAndSentinels(t *testing.T) {
	r := NewEmptyRegistry()
	for _, id := range []string{"c", "a", "b"} {
		if err := r.Register(&Background{ID: id, Kind: KindCustom, Pix: media.NewFrame(1, 1)}); err != nil {
			t.Fatal(err)
		}
	}

	ids := r.IDs()
	want := []string{"c", "a", "b", IDBlur, IDNone}
	if len(ids) != len(want) {
		t.Fatalf("IDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v (insertion order then sentinels)", ids, want)
		}
	}
}

func TestRegistry_ListByKind(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&Background{ID: "custom_ab12cd34", Kind: KindCustom, Pix: media.NewFrame(1, 1)}); err != nil {
		t.Fatal(err)
	}

	if got := len(r.List(KindProcedural)); got != 6 {
		t.Errorf("Procedural count = %d, want 6", got)
	}
	custom := r.List(KindCustom)
	if len(custom) != 1 || custom[0].ID != "custom_ab12cd34" {
		t.Errorf("Custom list = %v", custom)
	}
}

func TestProcedural_Deterministic(t *testing.T) {
	// Two independently generated sets must be pixel-identical, including
	// the space star field.
	a := proceduralSet()
	b := proceduralSet()
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("Set ordering differs: %q vs %q", a[i].ID, b[i].ID)
		}
		for p := range a[i].Pix.Pix {
			if a[i].Pix.Pix[p] != b[i].Pix.Pix[p] {
				t.Fatalf("Background %q is not deterministic at byte %d", a[i].ID, p)
			}
		}
	}
}
