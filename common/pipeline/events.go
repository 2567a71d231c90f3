/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package pipeline

// Log event IDs
const (
	eidExempt         uint32 = 3001
	eidPassthrough    uint32 = 3002
	eidNoRefreshToken uint32 = 3003
	eidRefreshed      uint32 = 3004
	eidRefreshFailed  uint32 = 3005
	eidCleared        uint32 = 3006
	eidClearFailed    uint32 = 3007
	eidStoreRead      uint32 = 3008
	eidRetried        uint32 = 3009
	eidCancelled      uint32 = 3010
	eidForeign        uint32 = 3011
	eidHeldBody       uint32 = 3012
)
