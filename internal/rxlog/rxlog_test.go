package rxlog_test

import (
	"testing"

	"github.com/rxlang/reactive/internal/rxlog"
	"github.com/stretchr/testify/require"
)

func TestNewReturnsAUsableLoggerAtBothVerbosities(t *testing.T) {
	quiet := rxlog.New(false)
	require.NotNil(t, quiet.GetSink())
	require.NotPanics(t, func() { quiet.Info("quiet") })

	verbose := rxlog.New(true)
	require.NotNil(t, verbose.GetSink())
	require.NotPanics(t, func() { verbose.V(1).Info("verbose trace") })
}
