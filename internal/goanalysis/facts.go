package goanalysis

import (
	"go/types"
	"reflect"
	"sync"

	"golang.org/x/tools/go/analysis"
)

// factStore holds the facts one analyzer exports while analyzing a single
// package. Facts about other packages are never available, so analyzers that
// rely on them see only what the current package declares.
type factStore struct {
	pkg *types.Package

	mu       sync.Mutex
	objects  map[objectFactKey]analysis.Fact
	packages map[packageFactKey]analysis.Fact
}

type objectFactKey struct {
	obj types.Object
	typ reflect.Type
}

type packageFactKey struct {
	pkg *types.Package
	typ reflect.Type
}

func newFactStore(pkg *types.Package) *factStore {
	return &factStore{
		pkg:      pkg,
		objects:  make(map[objectFactKey]analysis.Fact),
		packages: make(map[packageFactKey]analysis.Fact),
	}
}

// copyFact copies *src into *dst; both are pointers of the same type.
func copyFact(dst, src analysis.Fact) {
	reflect.ValueOf(dst).Elem().Set(reflect.ValueOf(src).Elem())
}

func (s *factStore) importObjectFact(obj types.Object, fact analysis.Fact) bool {
	if obj == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.objects[objectFactKey{obj, reflect.TypeOf(fact)}]
	if ok {
		copyFact(fact, stored)
	}
	return ok
}

func (s *factStore) exportObjectFact(obj types.Object, fact analysis.Fact) {
	if obj == nil || obj.Pkg() != s.pkg {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectFactKey{obj, reflect.TypeOf(fact)}] = fact
}

func (s *factStore) importPackageFact(pkg *types.Package, fact analysis.Fact) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.packages[packageFactKey{pkg, reflect.TypeOf(fact)}]
	if ok {
		copyFact(fact, stored)
	}
	return ok
}

func (s *factStore) exportPackageFact(fact analysis.Fact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages[packageFactKey{s.pkg, reflect.TypeOf(fact)}] = fact
}

func (s *factStore) allObjectFacts() []analysis.ObjectFact {
	s.mu.Lock()
	defer s.mu.Unlock()
	facts := make([]analysis.ObjectFact, 0, len(s.objects))
	for k, f := range s.objects {
		facts = append(facts, analysis.ObjectFact{Object: k.obj, Fact: f})
	}
	return facts
}

func (s *factStore) allPackageFacts() []analysis.PackageFact {
	s.mu.Lock()
	defer s.mu.Unlock()
	facts := make([]analysis.PackageFact, 0, len(s.packages))
	for k, f := range s.packages {
		facts = append(facts, analysis.PackageFact{Package: k.pkg, Fact: f})
	}
	return facts
}
