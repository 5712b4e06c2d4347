package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"garbage-vision-go/internal/config"
	"garbage-vision-go/internal/models"
)

// Service wraps the NATS connection used to fan detection results out to
// downstream consumers. It is optional; the pipeline runs without it.
type Service struct {
	conn *nats.Conn
	cfg  *config.Config
}

func NewService(cfg *config.Config) (*Service, error) {
	opts := []nats.Option{
		nats.Name("garbage-vision"),
		nats.Timeout(cfg.NatsConnectTimeout),
		nats.ReconnectWait(cfg.NatsReconnectWait),
		nats.MaxReconnects(cfg.NatsMaxReconnects),
	}

	conn, err := nats.Connect(cfg.NatsURL, opts...)
	if err != nil {
		return nil, err
	}

	log.Info().Str("url", cfg.NatsURL).Msg("NATS connection established")

	return &Service{
		conn: conn,
		cfg:  cfg,
	}, nil
}

// PublishDetections emits a detection event on the configured subject.
// A nil receiver is a no-op so callers do not need to branch on whether
// messaging is enabled.
func (s *Service) PublishDetections(source, image string, records []models.DetectionRecord) error {
	if s == nil {
		return nil
	}
	event := models.DetectionEvent{
		Source:     source,
		Image:      image,
		Categories: models.CountCategories(records),
		Details:    records,
		Timestamp:  time.Now().UTC(),
	}
	return s.Publish(s.cfg.NatsSubject, event)
}

func (s *Service) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return s.conn.Publish(subject, payload)
}

func (s *Service) IsConnected() bool {
	return s != nil && s.conn != nil && s.conn.IsConnected()
}

func (s *Service) Shutdown(ctx context.Context) error {
	if s == nil || s.conn == nil {
		return nil
	}
	// Try graceful drain with timeout, fallback to immediate close
	if err := s.conn.Drain(); err != nil {
		log.Warn().Err(err).Msg("Failed to drain NATS connection gracefully, closing immediately")
		s.conn.Close()
	}
	return nil
}
