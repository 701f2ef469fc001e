package arbor

import "fmt"

// SlotKind distinguishes the two child slot shapes a node variant may
// declare.
type SlotKind int8

const (
	// ScalarSlot holds a single child value.
	ScalarSlot SlotKind = iota
	// ListSlot holds an ordered list of child values.
	ListSlot
)

// SlotDef declares one child slot of a node variant.
type SlotDef struct {
	Name string
	Kind SlotKind
}

// Class is the constant descriptor of a node variant. It fixes the ordered
// set of child slots and an optional payload slot. Classes are shared by
// all nodes of the variant and never change after construction.
type Class struct {
	name     string
	slots    []SlotDef
	dataSlot string
	inx      map[string]int
	onlyList bool // exactly one child slot, and it is a list
}

// ClassOption configures a Class during construction.
type ClassOption func(*Class) error

// WithDataSlot declares a payload slot. The payload is what Data returns
// for nodes of this variant; it is not a child and is never traversed.
// The name must not collide with a child slot name.
func WithDataSlot(name string) ClassOption {
	return func(c *Class) error {
		if name == "" {
			return fmt.Errorf("%w: empty data slot name", ErrIllegalArguments)
		}
		c.dataSlot = name
		return nil
	}
}

// NewClass creates a node variant descriptor. Slot names must be non-empty
// and unique; the declared order is the child order used by traversal.
func NewClass(name string, slots []SlotDef, opts ...ClassOption) (*Class, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty class name", ErrIllegalArguments)
	}
	c := &Class{
		name:  name,
		slots: append([]SlotDef(nil), slots...),
		inx:   make(map[string]int, len(slots)),
	}
	for i, def := range c.slots {
		if def.Name == "" {
			return nil, fmt.Errorf("%w: class %q: empty slot name", ErrIllegalArguments, name)
		}
		if _, dup := c.inx[def.Name]; dup {
			return nil, fmt.Errorf("%w: class %q: duplicate slot %q", ErrIllegalArguments, name, def.Name)
		}
		c.inx[def.Name] = i
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.dataSlot != "" {
		if _, clash := c.inx[c.dataSlot]; clash {
			return nil, fmt.Errorf("%w: class %q: data slot %q collides with child slot",
				ErrIllegalArguments, name, c.dataSlot)
		}
	}
	c.onlyList = len(c.slots) == 1 && c.slots[0].Kind == ListSlot
	return c, nil
}

// MustClass is NewClass for variant tables built at package init time.
func MustClass(name string, slots []SlotDef, opts ...ClassOption) *Class {
	c, err := NewClass(name, slots, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the variant name.
func (c *Class) Name() string { return c.name }

// Slots returns the declared child slots in order.
func (c *Class) Slots() []SlotDef {
	return append([]SlotDef(nil), c.slots...)
}

// DataSlot returns the payload slot name, or "" when the variant has none.
func (c *Class) DataSlot() string { return c.dataSlot }

func (c *Class) slotIndex(name string) (int, bool) {
	i, ok := c.inx[name]
	return i, ok
}

func (c *Class) String() string {
	return fmt.Sprintf("class %s", c.name)
}
