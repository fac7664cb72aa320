package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	key := NewDefaultKeyer().CaseKey("CZ0200703")
	want := []byte(`{"case_id":"CZ0200703"}`)
	if err := c.Set(ctx, key, want, CaseTTL); err != nil {
		t.Fatal(err)
	}

	got, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		t.Fatalf("Get() = %v, %v; want hit", hit, err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get() = %q, want %q", got, want)
	}
}

func TestFileCacheMiss(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "absent")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v; want clean miss", data, hit, err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	_, hit, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("expired entry reported as hit")
	}
	// The expired file is removed, so the next read is an ordinary miss.
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry survived cleanup")
	}
}

func TestFileCacheDelete(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted entry still present")
	}
	// Deleting again is fine.
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete absent key: %v", err)
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v; want nothing stored", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("CZ0200703"))
	h2 := Hash([]byte("CZ0200703"))
	if h1 != h2 {
		t.Error("Hash not deterministic")
	}
	if h3 := Hash([]byte("CZ0200704")); h1 == h3 {
		t.Error("different inputs collide")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if key := k.CaseKey("CZ0200703"); key != "case:CZ0200703" {
		t.Errorf("CaseKey = %q", key)
	}

	p1 := k.PageKey("case", "https://www.shippai.org/fkd/cf/CZ0200703.html")
	p2 := k.PageKey("scenario", "https://www.shippai.org/fkd/cf/CZ0200703.html")
	if p1 == p2 {
		t.Error("PageKey ignores kind")
	}

	// Canvas changes must change the plan key.
	pk1 := k.PlanKey("h1", PlanKeyOpts{Width: 960, Height: 720, LayoutKind: "diagonal"})
	pk2 := k.PlanKey("h1", PlanKeyOpts{Width: 1280, Height: 720, LayoutKind: "diagonal"})
	if pk1 == pk2 {
		t.Error("PlanKey ignores canvas options")
	}

	ak1 := k.ArtifactKey("p1", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("p1", ArtifactKeyOpts{Format: "pdf"})
	if ak1 == ak2 {
		t.Error("ArtifactKey ignores format")
	}
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "mirror:test:")

	if got, want := scoped.CaseKey("X1"), "mirror:test:"+base.CaseKey("X1"); got != want {
		t.Errorf("CaseKey = %q, want %q", got, want)
	}
	if got := scoped.PlanKey("h", PlanKeyOpts{}); got == base.PlanKey("h", PlanKeyOpts{}) {
		t.Error("scoped PlanKey equals unscoped key")
	}
}
