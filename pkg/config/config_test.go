package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "studio")
	p := writeFile(t, "name: ${SAMPLE_NAME}\nport: 1\n")

	var s sample
	require.NoError(t, Load(p, &s))
	assert.Equal(t, "studio", s.Name)
}

func TestLoad_KeepsDefaults(t *testing.T) {
	p := writeFile(t, "name: x\n")
	s := sample{Port: 8080}
	require.NoError(t, Load(p, &s))
	assert.Equal(t, 8080, s.Port)
}

func TestLoad_Validates(t *testing.T) {
	p := writeFile(t, "port: 0\n")
	var s sample
	err := Load(p, &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_MissingFile(t *testing.T) {
	var s sample
	err := Load(filepath.Join(t.TempDir(), "none.yaml"), &s)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOptional_MissingFile(t *testing.T) {
	s := sample{Port: 1}
	found, err := LoadOptional(filepath.Join(t.TempDir(), "none.yaml"), &s)
	require.NoError(t, err)
	assert.False(t, found)

	bad := sample{}
	_, err = LoadOptional(filepath.Join(t.TempDir(), "none.yaml"), &bad)
	assert.Error(t, err, "defaults should still be validated")
}

func TestLoadOptional_PresentFile(t *testing.T) {
	p := writeFile(t, "name: present\nport: 3\n")
	var s sample
	found, err := LoadOptional(p, &s)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sample{Name: "present", Port: 3}, s)
}
