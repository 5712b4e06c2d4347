package api

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"garbage-vision-go/internal/annotate"
	"garbage-vision-go/internal/api/handlers"
	"garbage-vision-go/internal/camera"
	"garbage-vision-go/internal/catalog"
	"garbage-vision-go/internal/config"
	"garbage-vision-go/internal/detector"
	"garbage-vision-go/internal/inference"
	"garbage-vision-go/internal/messaging"
	"garbage-vision-go/internal/stream"
)

type Server struct {
	config   *config.Config
	router   *gin.Engine
	server   *http.Server
	detector *detector.DNNDetector
	nats     *messaging.Service

	healthHandler *handlers.HealthHandler
	uploadHandler *handlers.UploadHandler
	cameraHandler *handlers.CameraHandler
}

func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := ensureDirs(cfg.UploadsDir, cfg.ResultsDir); err != nil {
		return nil, fmt.Errorf("prepare working directories: %w", err)
	}

	cat, err := catalog.Load(cfg.MappingPath, cfg.ClassNamesPath)
	if err != nil {
		return nil, fmt.Errorf("load category catalog: %w", err)
	}

	renderer := annotate.NewRenderer(cfg.FontPath, cfg.FontSize)
	det := detector.NewDNNDetector(cfg.ModelPath, cfg.ModelConfigPath, cfg.ModelInputSize)
	adapter := inference.NewAdapter(det, cat, renderer, cfg.JPEGQuality)

	session := camera.NewSession(cfg.DefaultCameraSource)
	pipeline := stream.NewPipeline(session, adapter, stream.OpenDevice, cfg.TempFrame, cfg.ConfidenceThreshold, cfg.JPEGQuality)

	var nats *messaging.Service
	if cfg.NatsEnabled {
		nats, err = messaging.NewService(cfg)
		if err != nil {
			// Detection events are best-effort; the service runs without them.
			log.Warn().Err(err).Msg("NATS unavailable, detection events disabled")
			nats = nil
		}
	}

	var publisher handlers.Publisher
	var natsConnected func() bool
	if nats != nil {
		publisher = nats
		pipeline.SetPublisher(nats)
		natsConnected = nats.IsConnected
	}

	return &Server{
		config:        cfg,
		router:        gin.New(),
		detector:      det,
		nats:          nats,
		healthHandler: handlers.NewHealthHandler(cfg.Version, cfg.TemplatesDir, natsConnected),
		uploadHandler: handlers.NewUploadHandler(adapter, publisher, cfg.UploadsDir, cfg.ResultsDir, cfg.ConfidenceThreshold),
		cameraHandler: handlers.NewCameraHandler(session, pipeline, stream.ProbeDevices, cfg.ProbeMaxIndex),
	}, nil
}

func (s *Server) Setup() error {
	s.setupMiddleware()

	s.setupRoutes()

	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.router,
	}

	return nil
}

func (s *Server) Start() error {
	log.Info().Int("port", s.config.Port).Msg("Starting garbage detection API")
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	log.Info().Msg("Stopping garbage detection API")

	if s.nats != nil {
		if err := s.nats.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("NATS shutdown failed")
		}
	}
	if err := s.detector.Close(); err != nil {
		log.Warn().Err(err).Msg("Detector release failed")
	}

	return s.server.Shutdown(ctx)
}

func ensureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
