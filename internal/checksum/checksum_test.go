package checksum

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumMatchesSumReader(t *testing.T) {
	data := "some audio bytes"
	got, err := SumReader(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Sum([]byte(data)), got)
	assert.Len(t, got, 64, "hex digest")
}

func TestSumDiffers(t *testing.T) {
	assert.NotEqual(t, Sum([]byte("a")), Sum([]byte("b")))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestSumReaderError(t *testing.T) {
	_, err := SumReader(failingReader{})
	assert.Error(t, err)
}
