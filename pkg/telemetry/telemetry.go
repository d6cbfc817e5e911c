package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otlplog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/denysvitali/meshscan/internal/models"
	"github.com/denysvitali/meshscan/pkg/config"
)

const instrumentationName = "meshscan"

// Version is reported as the service version on every span and log record.
var Version = "dev"

const endpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"

// Initialize sets up OpenTelemetry tracing and logging using autoexport.
// Exporters are picked from the standard OTEL_* environment variables;
// a configured endpoint overrides OTEL_EXPORTER_OTLP_ENDPOINT.
func Initialize(cfg config.TelemetryConfig, logger *logrus.Logger) (func(), error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceNameKey.String(instrumentationName),
			semconv.ServiceVersionKey.String(Version),
		),
	)
	if err != nil {
		return nil, err
	}

	// autoexport only reads the endpoint from the environment.
	if cfg.Endpoint != "" {
		if err := os.Setenv(endpointEnv, cfg.Endpoint); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", endpointEnv, err)
		}
		logger.Debugf("Exporting telemetry to %s", cfg.Endpoint)
	}

	spanExporter, err := autoexport.NewSpanExporter(context.Background())
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	logExporter, err := autoexport.NewLogExporter(context.Background())
	if err != nil {
		logger.Warnf("Failed to create log exporter: %v", err)
	}

	var logProvider *sdklog.LoggerProvider
	if logExporter != nil {
		logProvider = sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
			sdklog.WithResource(res),
		)
		global.SetLoggerProvider(logProvider)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tp.Shutdown(ctx); err != nil {
			logger.Errorf("Error shutting down tracer provider: %v", err)
		}

		if logProvider != nil {
			if err := logProvider.Shutdown(ctx); err != nil {
				logger.Errorf("Error shutting down log provider: %v", err)
			}
		}
	}, nil
}

// ReportScanRequest records an incoming scan request on a span and in the debug log
func ReportScanRequest(ctx context.Context, logger *logrus.Logger, req models.ScanRequest) {
	report(ctx, logger, "scan_request", req,
		attribute.String("scan.root", req.Path),
		attribute.String("scan.extension", req.Extension),
	)
}

// ReportScanResponse records a completed scan on a span and in the debug log
func ReportScanResponse(ctx context.Context, logger *logrus.Logger, resp models.ScanResponse) {
	report(ctx, logger, "scan_response", resp,
		attribute.String("scan.root", resp.Root),
		attribute.String("scan.extension", resp.Extension),
		attribute.Int("scan.count", resp.Count),
	)
}

// report attaches the JSON payload and attrs to a child span, then mirrors the
// payload to logrus and the OpenTelemetry log provider at debug level.
func report(ctx context.Context, logger *logrus.Logger, operationName string, data interface{}, attrs ...attribute.KeyValue) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		logger.Errorf("Failed to marshal %s to JSON: %v", operationName, err)
		return
	}

	_, span := otel.Tracer(instrumentationName).Start(ctx, operationName)
	span.SetAttributes(attribute.String("json.data", string(jsonData)))
	span.SetAttributes(attrs...)
	span.End()

	fields := logrus.Fields{
		"operation": operationName,
		"json_data": string(jsonData),
	}
	for _, attr := range attrs {
		fields[string(attr.Key)] = attr.Value.AsInterface()
	}
	logger.WithFields(fields).Debug("Scan telemetry reported")

	var record otlplog.Record
	record.SetTimestamp(time.Now())
	record.SetObservedTimestamp(time.Now())
	record.SetSeverity(otlplog.SeverityDebug)
	record.SetSeverityText("DEBUG")
	record.SetBody(otlplog.StringValue(string(jsonData)))
	record.AddAttributes(otlplog.String("operation", operationName))
	global.GetLoggerProvider().Logger(instrumentationName).Emit(ctx, record)
}
