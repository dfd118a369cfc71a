package auth

import "time"

// SetClock replaces the manager's time source in tests.
func (m *TokenManager) SetClock(now func() time.Time) { m.now = now }
