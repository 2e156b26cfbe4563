package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"correioszpl/internal/config"
	"correioszpl/internal/failures"
)

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, "./tmp", opts.WorkDir)
	assert.Equal(t, 20, opts.DarknessLevel)
	assert.Equal(t, TypeSpool, opts.PrinterType)
	assert.Equal(t, 9100, opts.PrinterPort)
	assert.Equal(t, 30000, opts.Timeout)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		field string
	}{
		{name: "network without address", opts: Options{PrinterType: TypeNetwork}, field: "printerAddress"},
		{name: "spool without name", opts: Options{PrinterType: TypeSpool}, field: "printerName"},
		{name: "unknown type", opts: Options{PrinterType: "usb", PrinterName: "Zebra"}, field: "printerType"},
		{name: "darkness too high", opts: Options{DarknessLevel: 31, PrinterName: "Zebra"}, field: "darknessLevel"},
		{name: "port out of range", opts: Options{PrinterType: TypeNetwork, PrinterAddress: "10.0.0.5", PrinterPort: 70000}, field: "printerPort"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.withDefaults().Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, failures.ErrValidation))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestOptionsValidAccepted(t *testing.T) {
	require.NoError(t, Options{PrinterType: TypeNetwork, PrinterAddress: "10.0.0.5"}.withDefaults().Validate())
	require.NoError(t, Options{PrinterName: "Zebra"}.withDefaults().Validate())
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Printer.Type = TypeNetwork
	cfg.Printer.Address = "10.0.0.5"
	cfg.Label.DarknessLevel = 25

	opts := OptionsFromConfig(&cfg)
	assert.Equal(t, TypeNetwork, opts.PrinterType)
	assert.Equal(t, "10.0.0.5", opts.PrinterAddress)
	assert.Equal(t, 25, opts.DarknessLevel)
	assert.Equal(t, 9100, opts.PrinterPort)
	require.NoError(t, opts.Validate())
}
