package game

// ResourceType is the kind of resource a well produces.
type ResourceType int8

const (
	ResourceNone ResourceType = iota
	ResourceAdamantium
	ResourceMana
	ResourceElixir
)

// ResourceTypes lists every resource a well can hold.
var ResourceTypes = []ResourceType{ResourceAdamantium, ResourceMana, ResourceElixir}

// String returns the resource name.
func (r ResourceType) String() string {
	switch r {
	case ResourceAdamantium:
		return "adamantium"
	case ResourceMana:
		return "mana"
	case ResourceElixir:
		return "elixir"
	default:
		return "none"
	}
}

// Valid reports whether r is a known resource, including ResourceNone.
func (r ResourceType) Valid() bool {
	return r >= ResourceNone && r <= ResourceElixir
}

// Cargo is a resource inventory, carried by a body or owned by a team.
type Cargo struct {
	Adamantium int32 `json:"adamantium"`
	Mana       int32 `json:"mana"`
	Elixir     int32 `json:"elixir"`
}

// Total returns the sum of all resources.
func (c Cargo) Total() int32 {
	return c.Adamantium + c.Mana + c.Elixir
}

// Get returns the amount held of one resource.
func (c Cargo) Get(r ResourceType) int32 {
	switch r {
	case ResourceAdamantium:
		return c.Adamantium
	case ResourceMana:
		return c.Mana
	case ResourceElixir:
		return c.Elixir
	default:
		return 0
	}
}

// Add returns a copy of c with amount added to resource r.
func (c Cargo) Add(r ResourceType, amount int32) Cargo {
	switch r {
	case ResourceAdamantium:
		c.Adamantium += amount
	case ResourceMana:
		c.Mana += amount
	case ResourceElixir:
		c.Elixir += amount
	}
	return c
}
