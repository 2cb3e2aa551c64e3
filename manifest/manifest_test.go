package manifest

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/swarm/ecs"
	"github.com/milk9111/swarm/ecs/component"
	"gopkg.in/yaml.v3"
)

type position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type tag struct{}

type order struct {
	ecs.ProcessorBase
	label string
	log   *[]string
}

func (o *order) Name() string { return o.label }

func (o *order) Process(s *ecs.Scene, args ...any) { *o.log = append(*o.log, o.label) }

var (
	positionComponent = component.NewComponent[*position]()
	tagComponent      = component.NewComponent[*tag]()
)

func testCatalog(calls *[]string) *Catalog {
	c := NewCatalog()
	RegisterComponent(c, "position", positionComponent)
	RegisterComponent(c, "tag", tagComponent)
	factory := func(spec ProcessorSpec) (ecs.Processor, error) {
		var opts struct {
			Label string `yaml:"label"`
		}
		opts.Label = spec.Name
		if err := spec.DecodeOptions(&opts); err != nil {
			return nil, err
		}
		return &order{label: opts.Label, log: calls}, nil
	}
	c.RegisterProcessor("first", factory)
	c.RegisterProcessor("second", factory)
	return c
}

const sample = `
current: game
scenes:
  - name: game
    processors:
      - name: first
        priority: 1
      - name: second
        priority: 5
        options:
          label: renamed
    entities:
      - count: 3
        components:
          position: {x: 1, y: 2}
          tag: {}
      - components:
          position: {x: 9}
  - name: menu
`

func TestApply(t *testing.T) {
	m, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var calls []string
	r := ecs.NewRegistry(ecs.WithLogger(log.New(io.Discard, "", 0)))
	if err := testCatalog(&calls).Apply(m, r); err != nil {
		t.Fatalf("apply: %v", err)
	}

	name, game := r.Current()
	if name != "game" {
		t.Fatalf("expected current scene game, got %q", name)
	}
	if _, ok := r.Get("menu"); !ok {
		t.Fatalf("expected menu scene")
	}
	if game.Len() != 4 {
		t.Fatalf("expected 4 entities, got %d", game.Len())
	}
	if got := len(ecs.Entities(game, tagComponent)); got != 3 {
		t.Fatalf("expected 3 tagged entities, got %d", got)
	}

	positions, err := ecs.Instances(game, positionComponent)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[*position]bool{}
	for _, p := range positions {
		if seen[p] {
			t.Fatalf("entities must not share component instances")
		}
		seen[p] = true
	}

	game.Tick()
	if got := strings.Join(calls, ","); got != "renamed,first" {
		t.Fatalf("expected renamed,first, got %s", got)
	}
}

func TestApplyUnknownNames(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "processor",
			doc:  "scenes:\n  - name: a\n    processors:\n      - name: nope\n",
			want: ErrUnknownProcessor,
		},
		{
			name: "component",
			doc:  "scenes:\n  - name: a\n    entities:\n      - components:\n          nope: {}\n",
			want: ErrUnknownComponent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Parse([]byte(tc.doc))
			if err != nil {
				t.Fatal(err)
			}
			r := ecs.NewRegistry(ecs.WithLogger(log.New(io.Discard, "", 0)))
			var calls []string
			if err := testCatalog(&calls).Apply(m, r); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if _, ok := r.Get("a"); ok {
				t.Fatalf("nothing should be applied when validation fails")
			}
		})
	}
}

func TestApplyFailureLeavesRegistryUntouched(t *testing.T) {
	r := ecs.NewRegistry(ecs.WithLogger(log.New(io.Discard, "", 0)))
	existing := r.Create("a")
	existing.CreateEntity()

	var calls []string
	c := testCatalog(&calls)
	c.RegisterProcessor("bad", func(spec ProcessorSpec) (ecs.Processor, error) {
		return nil, errors.New("boom")
	})
	c.RegisterDecoder("broken", func(node *yaml.Node) (component.Entry, error) {
		return component.Entry{}, errors.New("bad payload")
	})

	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "processor_factory",
			doc:  "current: b\nscenes:\n  - name: a\n  - name: b\n    processors:\n      - name: bad\n",
		},
		{
			name: "component_decoder",
			doc:  "scenes:\n  - name: a\n  - name: b\n    entities:\n      - components:\n          broken: {}\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Parse([]byte(tc.doc))
			if err != nil {
				t.Fatal(err)
			}
			if err := c.Apply(m, r); err == nil {
				t.Fatalf("expected apply to fail")
			}
			if got, _ := r.Get("a"); got != existing || got.Len() != 1 {
				t.Fatalf("existing scene a must survive a failed apply")
			}
			if _, ok := r.Get("b"); ok {
				t.Fatalf("a half-built scene b must not be installed")
			}
			if name, _ := r.Current(); name != ecs.DefaultSceneName {
				t.Fatalf("current scene changed to %q", name)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("scenes:\n  - processors: []\n")); err == nil {
		t.Fatalf("expected error for unnamed scene")
	}
	if _, err := Parse([]byte("scenes: [")); err == nil {
		t.Fatalf("expected yaml error")
	}
	m, err := Parse([]byte("current: nope\nscenes:\n  - name: a\n"))
	if err != nil {
		t.Fatal(err)
	}
	r := ecs.NewRegistry(ecs.WithLogger(log.New(io.Discard, "", 0)))
	if err := NewCatalog().Apply(m, r); err == nil {
		t.Fatalf("expected error for undefined current scene")
	}
}

func TestLoadEmbedded(t *testing.T) {
	m, err := LoadFile("demo.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Current == "" || len(m.Scenes) == 0 {
		t.Fatalf("expected a populated demo manifest")
	}
	src, err := LoadScript("wander.tengo")
	if err != nil || len(src) == 0 {
		t.Fatalf("expected embedded script, got %v", err)
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte("scenes:\n  - name: disk\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Scenes) != 1 || m.Scenes[0].Name != "disk" {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "scene.yaml")
	for range 5 {
		if err := os.WriteFile(target, []byte("scenes: []\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case name := <-w.Events:
		if filepath.Base(name) != "scene.yaml" {
			t.Fatalf("unexpected event for %s", name)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for change event")
	}

	select {
	case name := <-w.Events:
		t.Fatalf("a burst of writes must coalesce into one event, got another for %s", name)
	case <-time.After(4 * settleDelay):
	}
}
