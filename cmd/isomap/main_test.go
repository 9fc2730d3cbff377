package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContoursCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"contours", "--field", "saddle", "--ni", "21", "--nj", "21", "--levels", "-5,0,5"})
	require.NoError(t, cmd.Execute())

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 3)
	assert.EqualValues(t, -5, fc.Features[0].Properties["level"])
}

func TestContoursCommand_InvalidConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"contours", "--interval", "-1", "--index", "quadtree"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interval")
	assert.Contains(t, err.Error(), "index")
}
