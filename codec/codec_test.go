package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manifest struct {
	Version int               `json:"version"`
	Meshes  map[string]string `json:"meshes"`
}

func TestCodecsInterchange(t *testing.T) {
	in := manifest{Version: 1, Meshes: map[string]string{"a": "a.mkm", "b": "b.mkm"}}

	for _, enc := range []Codec{JSON{}, GoJSON{}} {
		for _, dec := range []Codec{JSON{}, GoJSON{}} {
			t.Run(enc.Name()+"->"+dec.Name(), func(t *testing.T) {
				data, err := enc.Marshal(in)
				require.NoError(t, err)

				var out manifest
				require.NoError(t, dec.Unmarshal(data, &out))
				assert.Equal(t, in, out)
			})
		}
	}
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("go-json")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, Default, OrDefault(nil))
	assert.Equal(t, JSON{}, OrDefault(JSON{}))
	assert.JSONEq(t, `{"version":2,"meshes":null}`, string(MustMarshal(nil, manifest{Version: 2})))
	assert.Panics(t, func() { MustMarshal(JSON{}, func() {}) })
}
