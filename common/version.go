/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package common

//goland:noinspection GoUnusedConst
const (
	Version   = "0.4.2"
	Build     = 118
	Copyright = "Copyright 2024-2026 Tenebris Technologies Inc."
)
