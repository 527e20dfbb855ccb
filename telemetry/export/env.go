package export

import (
	"os"
	"strconv"
)

// envDisableTracing set to a true value installs no exporter, whatever the
// configured one.
const envDisableTracing = "DISABLE_TRACING"

func tracingDisabled() bool {
	disabled, err := strconv.ParseBool(os.Getenv(envDisableTracing))
	return err == nil && disabled
}
