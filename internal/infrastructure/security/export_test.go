package security

import "time"

// SetClock replaces the token service clock in tests.
func (s *JWTTokenService) SetClock(now func() time.Time) { s.now = now }
