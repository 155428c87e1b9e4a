package manifest

import (
	"log/slog"

	"github.com/Masterminds/semver/v3"
)

// Validate checks whether a manifest is admissible against the host's
// platform version and advertised API level. Checks run in order and
// short-circuit on the first failure; each failure emits one diagnostic
// naming the module id and the reason. A false result rejects the module
// only, never the batch.
func Validate(logger *slog.Logger, m *Manifest, id string, platformVersion string, apiLevel int) bool {
	if m == nil {
		logger.Error("Module has no manifest.", "module", id)
		return false
	}

	if m.Name == "" {
		logger.Error("Manifest is missing required field.", "module", id, "field", "name")
		return false
	}
	if m.Version == "" {
		logger.Error("Manifest is missing required field.", "module", id, "field", "version")
		return false
	}
	if m.APILevel <= 0 {
		logger.Error("Manifest is missing required field.", "module", id, "field", "api_level")
		return false
	}
	if m.TargetPlatform == "" {
		logger.Error("Manifest is missing required field.", "module", id, "field", "target_platform")
		return false
	}

	if m.APILevel > apiLevel {
		logger.Error("Module requires a newer host API level.",
			"module", id, "module_api_level", m.APILevel, "host_api_level", apiLevel)
		return false
	}

	constraint, err := semver.NewConstraint(m.TargetPlatform)
	if err != nil {
		logger.Error("Manifest target_platform is not a valid semver range.",
			"module", id, "target_platform", m.TargetPlatform, "error", err)
		return false
	}
	version, err := semver.NewVersion(platformVersion)
	if err != nil {
		logger.Error("Host platform version is not valid semver.",
			"module", id, "platform_version", platformVersion, "error", err)
		return false
	}
	if !constraint.Check(version) {
		logger.Error("Host platform version does not satisfy module target_platform.",
			"module", id, "platform_version", platformVersion, "target_platform", m.TargetPlatform)
		return false
	}

	return true
}
