package defaultfill

import "github.com/solatis/dtogen/internal/types"

// Hierarchy is a statically declared type table used when registering type
// generators in AllParents, AllInterfaces or All mode.
//
// Each type has at most one parent and any number of directly implemented
// interfaces. Interfaces declare their super-interfaces through their own
// Interfaces entry. The root type is simply never declared.
type Hierarchy struct {
	entries map[types.TypeRef]typeEntry
}

type typeEntry struct {
	parent     types.TypeRef
	interfaces []types.TypeRef
}

// NewHierarchy creates an empty hierarchy table.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{entries: make(map[types.TypeRef]typeEntry)}
}

// Declare records t's parent ("" for none) and the interfaces it implements
// directly. Declaring t again replaces the earlier entry.
func (h *Hierarchy) Declare(t, parent types.TypeRef, interfaces ...types.TypeRef) *Hierarchy {
	h.entries[t] = typeEntry{
		parent:     parent,
		interfaces: append([]types.TypeRef(nil), interfaces...),
	}
	return h
}

// Parent returns t's declared parent.
func (h *Hierarchy) Parent(t types.TypeRef) (types.TypeRef, bool) {
	if h == nil {
		return "", false
	}
	e, ok := h.entries[t]
	if !ok || e.parent == "" {
		return "", false
	}
	return e.parent, true
}

// Interfaces returns the interfaces t implements directly.
func (h *Hierarchy) Interfaces(t types.TypeRef) []types.TypeRef {
	if h == nil {
		return nil
	}
	return h.entries[t].interfaces
}

// Ancestors returns t's parent chain, nearest first. Stops on a cycle.
func (h *Hierarchy) Ancestors(t types.TypeRef) []types.TypeRef {
	var chain []types.TypeRef
	seen := map[types.TypeRef]bool{t: true}
	for {
		parent, ok := h.Parent(t)
		if !ok || seen[parent] {
			return chain
		}
		seen[parent] = true
		chain = append(chain, parent)
		t = parent
	}
}

// AllInterfaces returns every interface implemented by t transitively: the
// direct interfaces of t and of each ancestor, followed by their
// super-interfaces, depth first in declaration order without duplicates.
func (h *Hierarchy) AllInterfaces(t types.TypeRef) []types.TypeRef {
	var result []types.TypeRef
	seen := make(map[types.TypeRef]bool)

	var walk func(types.TypeRef)
	walk = func(iface types.TypeRef) {
		if seen[iface] {
			return
		}
		seen[iface] = true
		result = append(result, iface)
		for _, super := range h.Interfaces(iface) {
			walk(super)
		}
	}

	for _, owner := range append([]types.TypeRef{t}, h.Ancestors(t)...) {
		for _, iface := range h.Interfaces(owner) {
			walk(iface)
		}
	}
	return result
}
