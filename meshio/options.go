package meshio

import (
	"github.com/hupe1980/meshkit/codec"
	"github.com/hupe1980/meshkit/logging"
	"github.com/hupe1980/meshkit/mesh"
)

type options struct {
	compression Compression
	logger      *logging.Logger
	codec       codec.Codec
	meshOpts    []mesh.Option
}

// Option configures writing, reading and caches.
type Option func(*options)

// WithCompression selects the block compression used by writers.
// The default is CompressionLZ4.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithLogger sets the logger for file and cache operations.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCodec sets the codec of cache manifests. The default is codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithMeshOptions sets the options applied to meshes created by readers.
func WithMeshOptions(opts ...mesh.Option) Option {
	return func(o *options) {
		o.meshOpts = append(o.meshOpts, opts...)
	}
}

func applyOptions(optFns []Option) options {
	o := options{compression: CompressionLZ4}
	for _, fn := range optFns {
		fn(&o)
	}
	o.logger = logging.OrNoop(o.logger)
	o.codec = codec.OrDefault(o.codec)
	return o
}
