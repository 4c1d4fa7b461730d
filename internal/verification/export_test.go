package verification

import "fmt"

// checkInvariant reports a violated handle/state pairing.
func (s *Session) checkInvariant() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.HoldsHandle() != (s.handle != nil) {
		return fmt.Errorf("state %s with handle present=%v", s.state, s.handle != nil)
	}
	return nil
}
