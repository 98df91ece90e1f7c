package constants

// Provider computes constant values for one point in time between two
// simulation ticks and writes them into a holder.
//
// Providers are compared by identity, so implementations should have pointer
// receivers.
type Provider interface {
	ApplyConstants(h *Holder, interp float32)
}

type funcProvider[T any] struct {
	member Member[T]
	fn     func(interp float32) T
}

func (p *funcProvider[T]) ApplyConstants(h *Holder, interp float32) {
	TrySet(h, p.member, p.fn(interp))
}

// Provide adapts a function into a Provider for a single member.
func Provide[T any](m Member[T], fn func(interp float32) T) Provider {
	return &funcProvider[T]{member: m, fn: fn}
}

// ProviderSet is the list of providers attached to one holder. A provider is
// applied at most once per Apply no matter how many times it was added.
type ProviderSet struct {
	holder    *Holder
	providers []Provider
}

// NewProviderSet returns an empty set for h.
func NewProviderSet(h *Holder) *ProviderSet {
	return &ProviderSet{holder: h}
}

// Holder returns the holder the set writes to.
func (s *ProviderSet) Holder() *Holder { return s.holder }

// Add attaches p. It returns false if p was already attached.
func (s *ProviderSet) Add(p Provider) bool {
	if s.Has(p) {
		return false
	}
	s.providers = append(s.providers, p)
	return true
}

// Remove detaches p. It returns false if p was not attached.
func (s *ProviderSet) Remove(p Provider) bool {
	for i, q := range s.providers {
		if q == p {
			s.providers = append(s.providers[:i], s.providers[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether p is attached.
func (s *ProviderSet) Has(p Provider) bool {
	for _, q := range s.providers {
		if q == p {
			return true
		}
	}
	return false
}

// Len returns the number of attached providers.
func (s *ProviderSet) Len() int { return len(s.providers) }

// Apply runs every provider, in attach order, against the holder.
func (s *ProviderSet) Apply(interp float32) {
	for _, p := range s.providers {
		p.ApplyConstants(s.holder, interp)
	}
}
