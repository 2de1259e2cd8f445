package redis

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestFloatsToBytes(t *testing.T) {
	buf := floatsToBytes([]float64{1, -0.5, 0})
	require.Len(t, buf, 12)

	require.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])))
	require.Equal(t, float32(-0.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])))
	require.Equal(t, float32(0), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])))
}

func TestParseSearchResults(t *testing.T) {
	result := redis.FTSearchResult{
		Total: 4,
		Docs: []redis.Document{
			{ID: "qa:vec:b", Fields: map[string]string{
				"score": "0.1",
				"data":  `{"id":"b","question":"q b","answer":"a b","metadata":{"confidence":0.9}}`,
			}},
			{ID: "qa:vec:a", Fields: map[string]string{
				"score": "0.02",
				"data":  `{"id":"a","question":"q a","answer":"a a","metadata":{"confidence":1}}`,
			}},
			{ID: "qa:vec:far", Fields: map[string]string{
				"score": "0.5",
				"data":  `{"id":"far","question":"q","answer":"a","metadata":{}}`,
			}},
			{ID: "qa:vec:broken", Fields: map[string]string{
				"score": "0.0",
				"data":  `{not json`,
			}},
			{ID: "qa:vec:nodata", Fields: map[string]string{"score": "0.0"}},
		},
	}

	matches := parseSearchResults(context.Background(), result, 0.85)
	require.Len(t, matches, 2)

	require.Equal(t, "a", matches[0].ID)
	require.InDelta(t, 0.98, matches[0].Score, 1e-9)
	require.Equal(t, "a a", matches[0].Answer)

	require.Equal(t, "b", matches[1].ID)
	require.InDelta(t, 0.9, matches[1].Score, 1e-9)
	require.InDelta(t, 0.9, matches[1].Metadata.Confidence, 1e-9)
}

func TestParseSearchResult_MissingScore(t *testing.T) {
	doc := redis.Document{ID: "x", Fields: map[string]string{"data": "{}"}}
	require.Nil(t, parseSearchResult(context.Background(), doc, 0))
}
