package kafka

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducerConfigWriter(t *testing.T) {
	cfg := defaultProducerConfig()
	for _, opt := range []ProducerOption{
		WithBrokers([]string{"k1:9092", "k2:9092"}),
		WithCompression("zstd"),
		WithRequiredAcks(1),
		WithBatchTimeout(5 * time.Millisecond),
		WithTimeouts(2*time.Second, 3*time.Second),
	} {
		opt(&cfg)
	}
	require.NoError(t, cfg.validate())

	w := cfg.writer()
	assert.Equal(t, "k1:9092,k2:9092", w.Addr.String())
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
	assert.Equal(t, kafka.Zstd, w.Compression)
	assert.Equal(t, 5*time.Millisecond, w.BatchTimeout)
	assert.Equal(t, 2*time.Second, w.WriteTimeout)
	assert.Equal(t, 3*time.Second, w.ReadTimeout)

	WithHashByKey(false)(&cfg)
	assert.IsType(t, &kafka.LeastBytes{}, cfg.writer().Balancer)
}

func TestProducerConfigValidate(t *testing.T) {
	cfg := defaultProducerConfig()
	assert.Error(t, cfg.validate())

	WithBrokers([]string{"k:9092"})(&cfg)
	WithMaxAttempts(0)(&cfg)
	assert.Error(t, cfg.validate())
}

func TestParseCompression(t *testing.T) {
	tests := map[string]kafka.Compression{
		"snappy": kafka.Snappy,
		"lz4":    kafka.Lz4,
		"zstd":   kafka.Zstd,
		"gzip":   kafka.Gzip,
		"":       kafka.Gzip,
		"brotli": kafka.Gzip,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseCompression(in), in)
	}
}

func TestEncodeValue(t *testing.T) {
	b, err := encodeValue([]byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	b, err = encodeValue("text")
	require.NoError(t, err)
	assert.Equal(t, "text", string(b))

	b, err = encodeValue(map[string]string{"ticker": "CASH3"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ticker":"CASH3"}`, string(b))

	_, err = encodeValue(make(chan int))
	assert.Error(t, err)
}
