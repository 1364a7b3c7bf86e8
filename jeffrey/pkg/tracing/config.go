package tracing

// ExporterConfig selects exactly one exporter.
type ExporterConfig struct {
	OTLP   *OTLPExporterConfig `yaml:"otlp,omitempty"`
	File   *FileExporterConfig `yaml:"file,omitempty"`
	Stderr *struct{}           `yaml:"stderr,omitempty"`
	Nop    *struct{}           `yaml:"nop,omitempty"`
}

// FileExporterConfig appends spans as JSON documents to a file.
type FileExporterConfig struct {
	Path string `yaml:"path"`
}

type Config struct {
	// Spans are sent to every exporter. No exporters drops spans.
	Exporters []ExporterConfig `yaml:"exporters"`
}

const defaultOTLPEndpointEnv = "JEFFREY_TRACING_OTLP_GRPC"

// NewDefaultConfig exports spans over OTLP when the endpoint variable is set and drops them otherwise.
func NewDefaultConfig() *Config {
	return &Config{
		Exporters: []ExporterConfig{{
			OTLP: &OTLPExporterConfig{EndpointEnv: defaultOTLPEndpointEnv},
		}},
	}
}
