//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// See LICENSE file for details
//

package global

import (
	"os"

	"github.com/CardScan/CardScan/common"
)

func Banner() {
	common.Banner(os.Stdout, Description, Version, Build)
}
