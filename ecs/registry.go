package ecs

import (
	"log"
	"maps"
	"slices"
)

// DefaultSceneName is the scene every Registry starts with.
const DefaultSceneName = "default"

// Registry is a named table of independent scenes plus an advisory
// "current" scene name. It is not safe for concurrent use.
type Registry struct {
	scenes  map[string]*Scene
	current string
	opts    options
}

// NewRegistry returns a registry holding an empty "default" scene, which is
// also current. Scenes created by the registry share its options.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		scenes: make(map[string]*Scene),
		opts:   buildOptions(opts),
	}
	r.scenes[DefaultSceneName] = newScene(r.opts)
	r.current = DefaultSceneName
	return r
}

func (r *Registry) logger() *log.Logger {
	return r.opts.logger
}

// Create installs a fresh scene under name. An existing scene with that
// name is discarded and replaced.
func (r *Registry) Create(name string) *Scene {
	s := r.NewScene()
	r.Put(name, s)
	return s
}

// NewScene returns a scene configured like the registry's own scenes but
// not installed in it. Build it up, then install it with Put.
func (r *Registry) NewScene() *Scene {
	return newScene(r.opts)
}

// Put installs s under name, replacing any scene of that name. A nil s is
// ignored.
func (r *Registry) Put(name string, s *Scene) {
	if s == nil {
		return
	}
	if _, ok := r.scenes[name]; ok {
		r.logger().Printf("ecs: scene %q exists, overwriting", name)
	}
	r.scenes[name] = s
}

func (r *Registry) Get(name string) (*Scene, bool) {
	s, ok := r.scenes[name]
	return s, ok
}

// Set makes name the current scene if it exists.
func (r *Registry) Set(name string) bool {
	if _, ok := r.scenes[name]; !ok {
		return false
	}
	r.current = name
	return true
}

// Current returns the current scene name and scene. The scene is nil when
// the registry is empty.
func (r *Registry) Current() (string, *Scene) {
	return r.current, r.scenes[r.current]
}

// Reset replaces an existing scene with a fresh one.
func (r *Registry) Reset(name string) bool {
	if _, ok := r.scenes[name]; !ok {
		return false
	}
	r.scenes[name] = newScene(r.opts)
	return true
}

// Remove deletes the scene called name. When it was current, an arbitrary
// remaining scene becomes current, or none if the registry is now empty.
func (r *Registry) Remove(name string) bool {
	if _, ok := r.scenes[name]; !ok {
		r.logger().Printf("ecs: scene %q not found", name)
		return false
	}
	delete(r.scenes, name)
	if r.current == name {
		r.current = ""
		for next := range r.scenes {
			r.current = next
			break
		}
	}
	return true
}

// Names returns the scene names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.scenes))
}

// Len returns the number of scenes.
func (r *Registry) Len() int {
	return len(r.scenes)
}
