package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotPayload struct {
	Generation uint32  `json:"generation"`
	Value      *string `json:"value"`
}

func TestByName(t *testing.T) {
	t.Run("builtins", func(t *testing.T) {
		for _, name := range []string{"json", "go-json"} {
			c, ok := ByName(name)
			require.True(t, ok, name)
			assert.Equal(t, name, c.Name())
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, ok := ByName("msgpack")
		assert.False(t, ok)
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	value := "x"
	slots := []slotPayload{
		{Generation: 1, Value: &value},
		{Generation: 3, Value: nil},
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(slots)
			require.NoError(t, err)

			var got []slotPayload
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, slots, got)
		})
	}
}

func TestCodec_WireCompatible(t *testing.T) {
	// go-json output must decode under the stdlib codec and vice versa,
	// since a snapshot may be written and re-opened with either.
	value := "y"
	slots := []slotPayload{{Generation: 7, Value: &value}, {Generation: 7, Value: nil}}

	data := MustMarshal(GoJSON{}, slots)

	var got []slotPayload
	require.NoError(t, JSON{}.Unmarshal(data, &got))
	assert.Equal(t, slots, got)
}

func benchmarkCodecMarshal(b *testing.B, c Codec, v any) {
	b.Helper()
	b.ReportAllocs()

	warm, err := c.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(warm)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func BenchmarkCodec_Marshal_Slots(b *testing.B) {
	slots := make([]slotPayload, 1024)
	for i := range slots {
		slots[i].Generation = uint32(i%5 + 1)
		if i%3 != 0 {
			v := "payload"
			slots[i].Value = &v
		}
	}

	b.Run("stdlib", func(b *testing.B) { benchmarkCodecMarshal(b, JSON{}, slots) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecMarshal(b, GoJSON{}, slots) })
}
