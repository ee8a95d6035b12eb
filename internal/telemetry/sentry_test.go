package telemetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupWithoutDSN(t *testing.T) {
	flush, err := Setup("", "0.0.0", "run")
	require.NoError(t, err)
	require.NotNil(t, flush)
	require.False(t, enabled)

	require.NotPanics(t, func() {
		CaptureRouteFailure("Desktop", "cart", errors.New("boom"))
		flush()
	})
}

func TestSetupInvalidDSN(t *testing.T) {
	_, err := Setup("not a dsn", "0.0.0", "run")
	require.Error(t, err)
	require.False(t, enabled)
}
