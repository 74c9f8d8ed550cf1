package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/matzehuels/erdlayout/pkg/cache"
	"github.com/matzehuels/erdlayout/pkg/config"
	"github.com/matzehuels/erdlayout/pkg/diagram"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"layout", "render", "inspect", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestNewCache(t *testing.T) {
	c := New(io.Discard, LogInfo)

	t.Run("NoCacheFlag", func(t *testing.T) {
		store := c.newCache(context.Background(), config.Default(), true)
		if _, ok := store.(*cache.NullCache); !ok {
			t.Errorf("newCache(noCache=true) = %T, want *cache.NullCache", store)
		}
	})

	t.Run("NoneBackend", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Backend = config.CacheBackendNone
		store := c.newCache(context.Background(), cfg, false)
		if _, ok := store.(*cache.NullCache); !ok {
			t.Errorf("newCache(backend=none) = %T, want *cache.NullCache", store)
		}
	})

	t.Run("FileBackend", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", t.TempDir())
		store := c.newCache(context.Background(), config.Default(), false)
		if _, ok := store.(*cache.FileCache); !ok {
			t.Errorf("newCache(backend=file) = %T, want *cache.FileCache", store)
		}
	})
}

func TestLayoutCommandEndToEnd(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir := t.TempDir()
	input := filepath.Join(dir, "diagram.json")
	d := diagram.Diagram{
		Nodes: []diagram.Node{{ID: "users"}, {ID: "orders"}},
		Edges: []diagram.Edge{{Source: "users", Target: "orders"}},
	}
	if err := diagram.WriteDiagramFile(d, input); err != nil {
		t.Fatalf("write input: %v", err)
	}

	output := filepath.Join(dir, "out.json")
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"layout", input, "-o", output, "--no-cache"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("layout command failed: %v", err)
	}

	got, err := diagram.ReadDiagramFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(got.Nodes) != 2 {
		t.Fatalf("output has %d nodes, want 2", len(got.Nodes))
	}

	byID := make(map[string]diagram.Position)
	for _, n := range got.Nodes {
		byID[n.ID] = n.Position
	}
	if p := byID["users"]; p.X != 600 || p.Y != 100 {
		t.Errorf("users placed at (%v, %v), want (600, 100)", p.X, p.Y)
	}
	if p := byID["orders"]; p.Y != 420 {
		t.Errorf("orders.y = %v, want 420", p.Y)
	}
	if len(got.Edges) != 1 {
		t.Errorf("output has %d edges, want 1", len(got.Edges))
	}
}

func TestLayoutCommandFlagOverrides(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir := t.TempDir()
	input := filepath.Join(dir, "diagram.json")
	d := diagram.Diagram{Nodes: []diagram.Node{{ID: "a"}}}
	if err := diagram.WriteDiagramFile(d, input); err != nil {
		t.Fatalf("write input: %v", err)
	}

	output := filepath.Join(dir, "out.json")
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"layout", input, "-o", output, "--no-cache", "--origin-x", "0", "--origin-y", "50"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("layout command failed: %v", err)
	}

	got, err := diagram.ReadDiagramFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if p := got.Nodes[0].Position; p.X != 0 || p.Y != 50 {
		t.Errorf("a placed at (%v, %v), want (0, 50)", p.X, p.Y)
	}
}
