package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/phonefix-cli/internal/config"
)

func TestCheck_FormatsAndFlagsInvalid(t *testing.T) {
	cfg = &config.Config{Phone: config.PhoneConfig{Region: "NL"}}

	var out bytes.Buffer
	checkCmd.SetOut(&out)
	checkCmd.SetContext(context.Background())
	t.Cleanup(func() { checkCmd.SetOut(nil) })

	err := checkCmd.RunE(checkCmd, []string{"0201234567", "bel ons"})
	require.NoError(t, err)

	assert.Equal(t,
		"0201234567  ==>  +31 20 123 4567\nbel ons  (invalid)\n",
		out.String(),
	)
}

func TestCheck_RegionRequired(t *testing.T) {
	cfg = &config.Config{}

	err := checkCmd.RunE(checkCmd, []string{"0201234567"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region is required")
}
