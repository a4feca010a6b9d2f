package testutil

import (
	"os"
	"testing"

	"github.com/garmently/garmently/constants"
)

// resolverVars are the process variables the configuration resolver reads.
var resolverVars = []string{
	constants.EnvProfile,
	constants.EnvDebug,
	constants.EnvDatabaseURL,
	constants.EnvSecretKey,
	constants.EnvSecretKeyFile,
	constants.EnvBaseDir,
	constants.EnvLogLevel,
	constants.EnvPort,
	constants.EnvMediaRoot,
	constants.EnvMediaBucket,
	constants.EnvMediaRegion,
	constants.EnvTracesExporter,
	constants.EnvTracesServiceKey,
}

// CleanEnv unsets every variable the resolver reads, points BASE_DIR at a
// fresh temporary directory and applies overrides. It returns the base dir.
// Variables are restored when the test ends.
func CleanEnv(t *testing.T, overrides map[string]string) string {
	t.Helper()
	for _, key := range resolverVars {
		// Setenv first so the original value is restored on cleanup.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	base := t.TempDir()
	t.Setenv(constants.EnvBaseDir, base)
	for key, value := range overrides {
		t.Setenv(key, value)
	}
	return base
}
