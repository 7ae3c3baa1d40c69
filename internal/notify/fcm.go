package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/eventus-be/internal/metrics"
)

const (
	messagingScope  = "https://www.googleapis.com/auth/firebase.messaging"
	endpointPattern = "https://fcm.googleapis.com/v1/projects/%s/messages:send"
	breakerName     = "fcm"
)

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token        string  `json:"token"`
	Notification Message `json:"notification"`
}

// FCMSender posts messages to the Firebase Cloud Messaging HTTP v1 API.
type FCMSender struct {
	client      *http.Client
	endpoint    string
	concurrency int
	breaker     *gobreaker.CircuitBreaker[struct{}]
	logger      zerolog.Logger
}

// NewFCMSender authenticates with a service-account JSON credential.
func NewFCMSender(ctx context.Context, credentialsJSON []byte, projectID string, concurrency int, logger zerolog.Logger) (*FCMSender, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, messagingScope)
	if err != nil {
		return nil, fmt.Errorf("load fcm credentials: %w", err)
	}
	if projectID == "" {
		projectID = creds.ProjectID
	}
	if projectID == "" {
		return nil, errors.New("fcm project id is required")
	}
	client := oauth2.NewClient(ctx, creds.TokenSource)
	client.Timeout = 10 * time.Second
	return NewFCMSenderWithClient(client, fmt.Sprintf(endpointPattern, projectID), concurrency, logger), nil
}

// NewFCMSenderWithClient uses an already authenticated client against endpoint.
func NewFCMSenderWithClient(client *http.Client, endpoint string, concurrency int, logger zerolog.Logger) *FCMSender {
	if concurrency <= 0 {
		concurrency = 8
	}
	logger = logger.With().Str("component", "notify").Logger()
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("fcm circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return &FCMSender{
		client:      client,
		endpoint:    endpoint,
		concurrency: concurrency,
		breaker:     breaker,
		logger:      logger,
	}
}

// Send fans the message out to every token with bounded concurrency.
func (s *FCMSender) Send(ctx context.Context, tokens []string, msg Message) Report {
	var sent, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, token := range tokens {
		if token == "" {
			continue
		}
		g.Go(func() error {
			_, err := s.breaker.Execute(func() (struct{}, error) {
				return struct{}{}, s.post(ctx, token, msg)
			})
			switch {
			case err == nil:
				sent.Add(1)
				metrics.NotificationsTotal.WithLabelValues("sent").Inc()
			case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
				failed.Add(1)
				metrics.NotificationsTotal.WithLabelValues("rejected").Inc()
			default:
				failed.Add(1)
				metrics.NotificationsTotal.WithLabelValues("failed").Inc()
				s.logger.Warn().Err(err).Msg("push delivery failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Sent: int(sent.Load()), Failed: int(failed.Load())}
	s.logger.Info().Int("sent", report.Sent).Int("failed", report.Failed).Str("title", msg.Title).Msg("push fan-out finished")
	return report
}

func (s *FCMSender) post(ctx context.Context, token string, msg Message) error {
	body, err := json.Marshal(fcmRequest{Message: fcmMessage{Token: token, Notification: msg}})
	if err != nil {
		return fmt.Errorf("encode fcm message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build fcm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send fcm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fcm responded %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
