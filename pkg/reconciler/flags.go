package reconciler

import "strings"

// Flags marks the mutations a fiber needs at commit.
type Flags uint32

const (
	NoFlags       Flags = 0
	Placement     Flags = 1 << 1
	Update        Flags = 1 << 2
	ChildDeletion Flags = 1 << 3
	PassiveEffect Flags = 1 << 4
	Ref           Flags = 1 << 5

	MutationMask = Placement | Update | ChildDeletion | Ref
	LayoutMask   = Ref
	PassiveMask  = PassiveEffect | ChildDeletion
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{Placement, "Placement"},
	{Update, "Update"},
	{ChildDeletion, "ChildDeletion"},
	{PassiveEffect, "PassiveEffect"},
	{Ref, "Ref"},
}

func (f Flags) String() string {
	if f == NoFlags {
		return "NoFlags"
	}
	var parts []string
	for _, n := range flagNames {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// WorkTag identifies the kind of a fiber.
type WorkTag uint8

const (
	FunctionComponent WorkTag = iota
	HostRoot
	HostComponent
	HostText
	Fragment
)

func (t WorkTag) String() string {
	switch t {
	case FunctionComponent:
		return "FunctionComponent"
	case HostRoot:
		return "HostRoot"
	case HostComponent:
		return "HostComponent"
	case HostText:
		return "HostText"
	case Fragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}
