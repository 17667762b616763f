package compression

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		input string
		want  Codec
	}{
		{"", None},
		{"none", None},
		{"gzip", Gzip},
		{" Zstd ", Zstd},
		{"LZ4", LZ4},
		{"snappy", Snappy},
		{"s2", S2},
	}
	for _, tc := range cases {
		got, err := Parse(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}

	_, err := Parse("brotli")
	assert.Error(t, err)
}

func TestForPath(t *testing.T) {
	codec, rest := ForPath("data/dataset.jsonl.gz")
	assert.Equal(t, Gzip, codec)
	assert.Equal(t, "data/dataset.jsonl", rest)

	codec, rest = ForPath("data/dataset.csv")
	assert.Equal(t, None, codec)
	assert.Equal(t, "data/dataset.csv", rest)
}

func TestWriteReadRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("corral round trip payload\n"), 100)

	for _, codec := range []Codec{None, Gzip, Zstd, LZ4, Snappy, S2} {
		var buf bytes.Buffer

		w, err := codec.NewWriter(&buf)
		require.NoError(t, err, codec)
		_, err = w.Write(payload)
		require.NoError(t, err, codec)
		require.NoError(t, w.Close(), codec)

		r, err := codec.NewReader(&buf)
		require.NoError(t, err, codec)
		got, err := io.ReadAll(r)
		require.NoError(t, err, codec)
		require.NoError(t, r.Close(), codec)

		assert.Equal(t, payload, got, codec)
	}
}
