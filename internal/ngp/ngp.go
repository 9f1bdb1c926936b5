// Package ngp emits the manual setup and invocation instructions for the
// external instant-ngp reconstruction tool. The tool is installed and run by
// the operator; nothing here invokes it or verifies its presence.
package ngp

import (
	"fmt"
	"io"
)

// SetupError reports a failure while emitting the setup instructions.
// The type is deliberately narrow: only instruction-writing failures are
// wrapped here, so an unrelated failure can never masquerade as a setup
// problem.
type SetupError struct {
	Step string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("instant-ngp setup step %q: %v", e.Step, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// Instructions returns the install and training instructions with the
// dataset directory interpolated into the run command.
func Instructions(datasetDir string) string {
	return fmt.Sprintf(`Installation instructions for instant-ngp:
1. Clone the repository:
   git clone --recursive https://github.com/nvlabs/instant-ngp
2. Build following the instructions in the README.md
3. Install the Python bindings:
   pip install -e ./instant-ngp

After installation, run the training:
   python -m instant_ngp %s`, datasetDir)
}

// MeshExportHint returns the follow-up command that exports a mesh once
// training has run.
func MeshExportHint() string {
	return "instant-ngp --scene transforms.json --save-mesh output.obj"
}

// Print writes the instructions for datasetDir to w. A write failure is
// returned as a *SetupError; callers report it and continue, since missing
// instructions never invalidate an already-written dataset.
func Print(w io.Writer, datasetDir string) error {
	if _, err := fmt.Fprintln(w, Instructions(datasetDir)); err != nil {
		return &SetupError{Step: "write instructions", Err: err}
	}
	return nil
}
