package deadcode

import "strings"

// frame is one entry of the lexical scope stack.
type frame struct {
	path       []string
	owner      *Owner
	singleton  bool
	opaque     bool
	visibility Visibility
}

// ScopeTracker follows the class, module and singleton-class nesting while a
// file is walked, so definitions and sends know their enclosing namespace.
// Every push must be matched by a Pop.
type ScopeTracker struct {
	frames      []frame
	methodDepth int
}

// NewScopeTracker returns a tracker positioned at the top level.
func NewScopeTracker() *ScopeTracker {
	return &ScopeTracker{
		frames: []frame{{visibility: VisibilityPublic}},
	}
}

func (s *ScopeTracker) top() *frame {
	return &s.frames[len(s.frames)-1]
}

// PushNamespace enters a class or module named by a literal constant path.
// A rooted path (::Foo::Bar) resets nesting to the top level.
func (s *ScopeTracker) PushNamespace(segments []string, rooted bool, kind Kind, superclass string) *Owner {
	parent := s.top()
	var path []string
	if !rooted {
		path = append(path, parent.path...)
	}
	path = append(path, segments...)
	opaque := parent.opaque && !rooted
	return s.push(path, kind, superclass, opaque)
}

// PushOpaque enters a class or module whose name could not be resolved, as
// in `class foo::Bar`. name is the trailing constant when one is written.
func (s *ScopeTracker) PushOpaque(name string, kind Kind, superclass string) *Owner {
	parent := s.top()
	path := append(append([]string(nil), parent.path...), OpaqueName)
	if name != "" {
		path = append(path, name)
	}
	return s.push(path, kind, superclass, true)
}

func (s *ScopeTracker) push(path []string, kind Kind, superclass string, opaque bool) *Owner {
	owner := &Owner{
		Name:          path[len(path)-1],
		QualifiedName: strings.Join(path, "::"),
		Kind:          kind,
		Superclass:    superclass,
		Opaque:        opaque,
	}
	s.frames = append(s.frames, frame{
		path:       path,
		owner:      owner,
		opaque:     opaque,
		visibility: VisibilityPublic,
	})
	return owner
}

// PushSingleton enters a `class << x` body. Only `class << self` keeps the
// enclosing namespace resolvable; any other target is opaque.
func (s *ScopeTracker) PushSingleton(self bool) {
	parent := s.top()
	f := frame{
		path:       parent.path,
		owner:      parent.owner,
		singleton:  true,
		opaque:     parent.opaque || !self,
		visibility: VisibilityPublic,
	}
	if !self {
		f.path = append(append([]string(nil), parent.path...), OpaqueName)
		f.owner = &Owner{
			Name:          OpaqueName,
			QualifiedName: strings.Join(f.path, "::"),
			Kind:          KindClass,
			Opaque:        true,
		}
	}
	s.frames = append(s.frames, f)
}

// Pop leaves the innermost namespace. Popping the top level is a no-op.
func (s *ScopeTracker) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth returns the nesting depth; zero at the top level.
func (s *ScopeTracker) Depth() int {
	return len(s.frames) - 1
}

// Owner returns the innermost enclosing namespace, or nil at the top level.
func (s *ScopeTracker) Owner() *Owner {
	return s.top().owner
}

// Path returns the qualified name of the current namespace.
func (s *ScopeTracker) Path() string {
	return strings.Join(s.top().path, "::")
}

// Qualify joins name onto the current namespace path.
func (s *ScopeTracker) Qualify(name string) string {
	path := s.top().path
	if len(path) == 0 {
		return name
	}
	return strings.Join(path, "::") + "::" + name
}

// QualifyPath resolves a constant path written at the current position.
func (s *ScopeTracker) QualifyPath(segments []string, rooted bool) string {
	joined := strings.Join(segments, "::")
	if rooted {
		return joined
	}
	return s.Qualify(joined)
}

// Opaque reports whether any enclosing namespace is unresolvable.
func (s *ScopeTracker) Opaque() bool {
	return s.top().opaque
}

// InSingleton reports whether the walker is inside a `class << self` body.
func (s *ScopeTracker) InSingleton() bool {
	return s.top().singleton
}

// EnterMethod and ExitMethod bracket method bodies.
func (s *ScopeTracker) EnterMethod() { s.methodDepth++ }

// ExitMethod leaves a method body.
func (s *ScopeTracker) ExitMethod() {
	if s.methodDepth > 0 {
		s.methodDepth--
	}
}

// InMethod reports whether the walker is inside a method body.
func (s *ScopeTracker) InMethod() bool {
	return s.methodDepth > 0
}

// Visibility returns the default visibility for new methods in this body.
func (s *ScopeTracker) Visibility() Visibility {
	return s.top().visibility
}

// SetVisibility changes the default visibility, as a bare `private` does.
func (s *ScopeTracker) SetVisibility(v Visibility) {
	s.top().visibility = v
}
