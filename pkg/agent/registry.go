package agent

import "fmt"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Info describes a registered strategy for listing.
type Info struct {
	Id           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
	Status       string   `json:"status"`
}

// Registry holds strategies by unique name in registration order. It is built
// once at startup and read-only afterwards.
type Registry struct {
	order        []Strategy
	byName       map[string]Strategy
	defaultEntry string
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Strategy)}
}

func (r *Registry) Register(s Strategy) error {
	if _, exists := r.byName[s.Name()]; exists {
		return fmt.Errorf("strategy %q already registered", s.Name())
	}
	r.byName[s.Name()] = s
	r.order = append(r.order, s)
	return nil
}

// SetDefault selects the entry strategy used for end-to-end requests.
func (r *Registry) SetDefault(name string) error {
	if _, ok := r.byName[name]; !ok {
		return fmt.Errorf("strategy %q is not registered", name)
	}
	r.defaultEntry = name
	return nil
}

// Default returns the entry strategy; without an explicit default it is the
// first registered one.
func (r *Registry) Default() (Strategy, bool) {
	if r.defaultEntry != "" {
		return r.byName[r.defaultEntry], true
	}
	if len(r.order) == 0 {
		return nil, false
	}
	return r.order[0], true
}

func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.byName[name]
	return s, ok
}

func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.order))
	for _, s := range r.order {
		status := StatusInactive
		if s.Available() {
			status = StatusActive
		}
		infos = append(infos, Info{
			Id:           s.Name(),
			Name:         s.Name(),
			Description:  s.Description(),
			Capabilities: CapabilitiesOf(s),
			Status:       status,
		})
	}
	return infos
}

func (r *Registry) Len() int { return len(r.order) }

// NewDefaultRegistry registers the base strategies in order, then a coordinator
// over them, and makes the coordinator the default entry.
func NewDefaultRegistry(coordinator *Coordinator) *Registry {
	r := NewRegistry()
	for _, s := range coordinator.Strategies() {
		_ = r.Register(s)
	}
	_ = r.Register(coordinator)
	_ = r.SetDefault(coordinator.Name())
	return r
}
