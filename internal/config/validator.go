package config

import (
	"fmt"
	"os"
	"strings"
)

// RequiredEnvVars lists the environment variables that have no usable default.
var RequiredEnvVars = []string{
	"API_KEY",
	"JWT_SECRET",
}

// ValidateEnv checks that every required environment variable is set,
// reporting all missing names at once.
func ValidateEnv() error {
	var missing []string
	for _, envVar := range RequiredEnvVars {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
