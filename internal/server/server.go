package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/emrgen/okr/internal/audit"
	"github.com/emrgen/okr/internal/config"
	"github.com/emrgen/okr/internal/jobs"
	"github.com/emrgen/okr/internal/notify"
	"github.com/emrgen/okr/internal/service"
	"github.com/emrgen/okr/internal/store"
	"github.com/gobuffalo/packr"
	grpcmiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpclogrus "github.com/grpc-ecosystem/go-grpc-middleware/logging/logrus"
	grpcrecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcvalidator "github.com/grpc-ecosystem/go-grpc-middleware/validator"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService is the name reported by the health service for the link API.
const HealthService = "okr.v1.LinkService"

// Server represents the server
type Server struct {
	cfg *config.Config
}

// NewServer creates a new server
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.cfg); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start starts the grpc and http servers and blocks until the process is signalled.
func Start(cfg *config.Config) error {
	var err error

	grpcPort := ":" + cfg.GrpcPort
	httpPort := ":" + cfg.HttpPort

	rdb := config.GetDb(cfg)
	okrStore := store.NewGormStore(rdb)
	if err = okrStore.Migrate(); err != nil {
		return err
	}

	notifier, closeNotifier, err := buildNotifier(cfg, okrStore)
	if err != nil {
		return err
	}
	defer closeNotifier()

	auditSink, closeAudit, err := buildAuditSink(cfg, okrStore)
	if err != nil {
		return err
	}
	defer closeAudit()

	links := service.NewLinkService(okrStore, notify.NewDispatcher(notifier, okrStore), auditSink)

	if cfg.Reminder.Enabled {
		executor := jobs.NewTaskExecutor(jobs.NewReminderTask(links, cfg.Reminder.Schedule, cfg.Reminder.After))
		if err = executor.Start(); err != nil {
			return err
		}
		defer executor.Stop()
	}

	gl, err := net.Listen("tcp", grpcPort)
	if err != nil {
		return err
	}

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcmiddleware.ChainUnaryServer(
			grpcrecovery.UnaryServerInterceptor(grpcrecovery.WithRecoveryHandler(recoverPanic)),
			grpclogrus.UnaryServerInterceptor(logrus.NewEntry(logrus.StandardLogger())),
			grpcvalidator.UnaryServerInterceptor(),
			// log the request time
			UnaryGrpcRequestTimeInterceptor(),
		)),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(HealthService, healthpb.HealthCheckResponse_SERVING)

	// the REST gateway serves the link API directly from the service
	mux, err := NewGatewayMux(NewLinkAPI(links))
	if err != nil {
		return err
	}
	if err = RegisterHealth(mux, healthServer); err != nil {
		return err
	}

	apiMux := http.NewServeMux()
	openapiDocs := packr.NewBox("../../docs/v1")
	docsPath := "/v1/docs/"
	apiMux.Handle(docsPath, http.StripPrefix(docsPath, http.FileServer(openapiDocs)))
	apiMux.Handle("/", mux)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type", "X-User-ID"},
		AllowCredentials: true,
	})

	restServer := &http.Server{
		Addr:              httpPort,
		Handler:           c.Handler(apiMux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// make sure to wait for the servers to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting rest gateway on: ", httpPort)
		logrus.Info("click on the following link to view the API documentation: http://localhost", httpPort, "/v1/docs/")
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting rest gateway: %v", err)
			}
		}
		logrus.Infof("rest gateway stopped")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting grpc server on: ", grpcPort)
		if err := grpcServer.Serve(gl); err != nil {
			logrus.Infof("grpc failed to start: %v", err)
		}
		logrus.Infof("grpc server stopped")
	}()

	time.Sleep(1 * time.Second)
	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	healthServer.Shutdown()
	grpcServer.GracefulStop()
	err = restServer.Shutdown(context.Background())
	if err != nil {
		logrus.Errorf("error stopping rest gateway: %v", err)
	}

	wg.Wait()

	return nil
}

// buildNotifier always delivers to the in-app inbox, redis and SES are added when enabled.
func buildNotifier(cfg *config.Config, okrStore store.Store) (notify.Notifier, func(), error) {
	notifiers := notify.Fanout{notify.NewInboxNotifier(okrStore)}
	closers := []func(){}

	if cfg.Redis.Enabled {
		client := notify.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		notifiers = append(notifiers, notify.NewRedisNotifier(client))
		closers = append(closers, func() { _ = client.Close() })
		logrus.Infof("publishing notifications to redis %s", cfg.Redis.Addr)
	}

	if cfg.SES.Enabled {
		client, err := notify.NewSESClient(context.Background(), cfg.SES.Region)
		if err != nil {
			return nil, nil, err
		}
		notifiers = append(notifiers, notify.NewSESNotifier(client, okrStore, cfg.SES.From))
		logrus.Infof("sending notification emails through SES in %s", cfg.SES.Region)
	}

	return notifiers, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}

// buildAuditSink always records to the database, kafka is added when enabled.
func buildAuditSink(cfg *config.Config, okrStore store.Store) (audit.Sink, func(), error) {
	sinks := audit.Sinks{audit.NewDBSink(okrStore)}

	if !cfg.Kafka.Enabled {
		return sinks, func() {}, nil
	}

	producer, err := audit.NewKafkaProducer(cfg.Kafka.Brokers)
	if err != nil {
		return nil, nil, fmt.Errorf("connect kafka %s: %w", cfg.Kafka.Brokers, err)
	}
	kafkaSink := audit.NewKafkaSink(producer, cfg.Kafka.Topic)
	logrus.Infof("publishing audit records to kafka topic %s", cfg.Kafka.Topic)

	return append(sinks, kafkaSink), kafkaSink.Close, nil
}
