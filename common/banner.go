//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// See LICENSE file for details
//

package common

import (
	"fmt"
	"io"
)

// Banner writes the program name, version, and license summary to w
func Banner(w io.Writer, program, version string, build int) {
	_, _ = fmt.Fprintf(w, "%s version %s (build %d)\n", program, version, build)
	_, _ = fmt.Fprintf(w, "%s\n", Copyright)
	_, _ = fmt.Fprintf(w, "\nLicense:\n")
	_, _ = fmt.Fprintf(w, "  This software is licenced under the Apache License, Version 2.0.\n")
	_, _ = fmt.Fprintf(w, "  A copy of the license can be found in the LICENSE file.\n")
	_, _ = fmt.Fprintf(w, "\nOpen Source:\n")
	_, _ = fmt.Fprintf(w, "  CardScan relies upon third-party open source packages. If you received\n")
	_, _ = fmt.Fprintf(w, "  this software in binary form, please refer to the accompanying\n")
	_, _ = fmt.Fprintf(w, "  documentation for full information.\n\n")
}
