// =============================================================================
// MedData CLI - Main Entry Point
// =============================================================================
//
// USAGE:
//   meddata init <id> <name> <description>
//   meddata process <id>
//   meddata publish <id>
//   meddata assets [id]
//   meddata docs <id>
//   meddata doctor <id>
//   meddata site [--serve]
//   meddata setup
//   meddata manual
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : core logic (config, sources, pipeline, docgen, publish, ...)
//   - pkg/       : shared file utilities
//
// =============================================================================

package main

import (
	"github.com/meddata-hub/meddata-cli/cmd"
)

func main() {
	cmd.Execute()
}
