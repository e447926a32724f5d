// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig.Validate())
}

func TestTestConfigValid(t *testing.T) {
	require.NoError(t, TestConfig.Validate())
}

func TestValidateRejectsNegativeNeededApprovals(t *testing.T) {
	c := SessionConfig{NeededApprovals: -1, NoShowDuration: 10}
	require.ErrorIs(t, c.Validate(), ErrInvalidNeededApprovals)
}

func TestValidateRejectsZeroNoShowDuration(t *testing.T) {
	c := SessionConfig{NeededApprovals: 4, NoShowDuration: 0}
	require.ErrorIs(t, c.Validate(), ErrInvalidNoShowDuration)
}

func TestValidateAcceptsZeroNeededApprovals(t *testing.T) {
	c := SessionConfig{NeededApprovals: 0, NoShowDuration: 1}
	require.NoError(t, c.Validate())
}
