//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package userver

import (
	"math/rand"
	"time"
)

// PenaltyBox imposes a delay between s.PenaltyBoxMin and s.PenaltyBoxMax milliseconds
func (s *HServer) PenaltyBox() {
	if s.PenaltyBoxMax == 0 || s.PenaltyBoxMin > s.PenaltyBoxMax {
		return
	}

	delay := s.PenaltyBoxMin
	if s.PenaltyBoxMin != s.PenaltyBoxMax {
		delay += rand.Intn(s.PenaltyBoxMax - s.PenaltyBoxMin)
	}

	time.Sleep(time.Duration(delay) * time.Millisecond)
}
