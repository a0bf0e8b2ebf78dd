package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/lycfight/swebatch/internal/logging"
)

// Version check errors.
var (
	ErrVersionProbeFailed   = errors.New("could not determine harness version")
	ErrIncompatibleVersion  = errors.New("harness version is too old")
	ErrEmptyProbeCommand    = errors.New("version probe command cannot be empty")
	ErrInvalidMinConstraint = errors.New("invalid minimum version constraint")
)

// VersionProbe discovers the installed harness version by running a
// configured probe command and parsing its stdout as a semantic version.
type VersionProbe struct {
	command []string
}

// NewVersionProbe creates a probe for the given argv.
func NewVersionProbe(command []string) (*VersionProbe, error) {
	if len(command) == 0 {
		return nil, ErrEmptyProbeCommand
	}
	return &VersionProbe{command: command}, nil
}

// Probe runs the probe command and parses the reported version.
func (p *VersionProbe) Probe(ctx context.Context) (*semver.Version, error) {
	var stdout bytes.Buffer

	//nolint:gosec // The probe command is operator-supplied configuration.
	cmd := exec.CommandContext(ctx, p.command[0], p.command[1:]...)
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVersionProbeFailed, err)
	}

	raw := strings.TrimSpace(stdout.String())
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable version %q", ErrVersionProbeFailed, raw)
	}

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "harness").
		Str("version", v.String()).
		Msg("harness version probed")

	return v, nil
}

// CheckVersion verifies that v satisfies the minimum version
// requirement. An empty minVersion disables the check.
func CheckVersion(v *semver.Version, minVersion string) error {
	if minVersion == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(">= " + minVersion)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMinConstraint, minVersion)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("%w: found %s, need >= %s", ErrIncompatibleVersion, v, minVersion)
	}

	return nil
}
