package grpcservice

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ark-network/launchsite/internal/config"
	interfaces "github.com/ark-network/launchsite/internal/interface"
	"github.com/ark-network/launchsite/internal/interface/grpc/handlers"
	"github.com/ark-network/launchsite/internal/interface/grpc/interceptors"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	grpchealth "google.golang.org/grpc/health/grpc_health_v1"
)

const shutdownTimeout = 10 * time.Second

type service struct {
	config       Config
	appConfig    *config.Config
	server       *http.Server
	grpcServer   *grpc.Server
	healthServer *health.Server
	otelShutdown func(context.Context) error
}

func NewService(
	svcConfig Config, appConfig *config.Config,
) (interfaces.Service, error) {
	if err := svcConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service config: %s", err)
	}
	if err := appConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid app config: %s", err)
	}

	return &service{config: svcConfig, appConfig: appConfig}, nil
}

func (s *service) Start() error {
	if err := s.newServer(); err != nil {
		return err
	}

	appSvc, err := s.appConfig.AppService()
	if err != nil {
		return err
	}
	if err := appSvc.Start(); err != nil {
		return fmt.Errorf("failed to start app service: %s", err)
	}
	log.Info("started app service")

	s.healthServer.SetServingStatus("", grpchealth.HealthCheckResponse_SERVING)

	// nolint:all
	go s.server.ListenAndServe()
	log.Infof("started listening at %s", s.config.address())

	return nil
}

func (s *service) Stop() {
	if s.healthServer != nil {
		s.healthServer.Shutdown()
	}

	// Stopping the app service closes the event bus and with it every open
	// event stream, otherwise the http server would wait for them forever.
	appSvc, _ := s.appConfig.AppService()
	if appSvc != nil {
		appSvc.Stop()
		log.Info("stopped app service")
	}

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("failed to gracefully shutdown http server, closing it")
			//nolint:all
			s.server.Close()
		}
		s.grpcServer.Stop()
		log.Info("stopped grpc server")
	}

	if s.otelShutdown != nil {
		if err := s.otelShutdown(context.Background()); err != nil {
			log.Errorf("failed to shutdown otel: %s", err)
		}
	}
}

func (s *service) newServer() error {
	if s.appConfig.OtelCollectorEndpoint != "" {
		otelShutdown, err := initOtelSDK(context.Background(), s.appConfig.OtelCollectorEndpoint)
		if err != nil {
			return err
		}

		s.otelShutdown = otelShutdown
	}

	otelHandler := otelgrpc.NewServerHandler(
		otelgrpc.WithTracerProvider(otel.GetTracerProvider()),
	)

	grpcConfig := []grpc.ServerOption{
		interceptors.UnaryInterceptor(),
		interceptors.StreamInterceptor(),
		grpc.StatsHandler(otelHandler),
		grpc.Creds(insecure.NewCredentials()),
	}

	// Server grpc.
	grpcServer := grpc.NewServer(grpcConfig...)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpchealth.HealthCheckResponse_NOT_SERVING)
	grpchealth.RegisterHealthServer(grpcServer, healthServer)

	appSvc, err := s.appConfig.AppService()
	if err != nil {
		return err
	}
	httpHandler := handlers.NewHandler(appSvc)

	handler := router(grpcServer, httpHandler)
	mux := http.NewServeMux()
	mux.Handle("/", handler)

	httpServerHandler := http.Handler(mux)
	if s.config.insecure() {
		httpServerHandler = h2c.NewHandler(httpServerHandler, &http2.Server{})
	}

	s.server = &http.Server{
		Addr:    s.config.address(),
		Handler: httpServerHandler,
	}
	s.grpcServer = grpcServer
	s.healthServer = healthServer

	return nil
}

func router(
	grpcServer *grpc.Server, httpHandler http.Handler,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isOptionRequest(r) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "*")
			w.Header().Add("Access-Control-Allow-Methods", "POST, GET, PATCH, OPTIONS")
			return
		}

		if isGrpcRequest(r) {
			grpcServer.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Add("Access-Control-Allow-Methods", "POST, GET, PATCH, OPTIONS")
		httpHandler.ServeHTTP(w, r)
	})
}

func isOptionRequest(req *http.Request) bool {
	return req.Method == http.MethodOptions
}

func isGrpcRequest(req *http.Request) bool {
	return req.ProtoMajor == 2 &&
		strings.HasPrefix(req.Header.Get("Content-Type"), "application/grpc")
}
