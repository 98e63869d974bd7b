// Package httpserver exposes the Slack Events API webhook.
package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slackgo "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/bakkerme/arxiv-bot/internal/bot"
	"github.com/bakkerme/arxiv-bot/internal/core"
)

// EventHandler is the dispatcher surface the transport needs.
type EventHandler interface {
	HandleMessage(ctx context.Context, msg bot.Message) bot.Outcome
	HandleMention(ctx context.Context, mention bot.Mention) bot.Outcome
}

type Server struct {
	echo          *echo.Echo
	handler       EventHandler
	signingSecret string
	logger        *slog.Logger
}

func New(signingSecret string, handler EventHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:          e,
		handler:       handler,
		signingSecret: signingSecret,
		logger:        logger,
	}
	e.GET("/healthz", s.handleHealth)
	e.POST("/slack/events", s.handleEvents)
	return s
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP makes the server usable with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvents(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	if !s.validSignature(c.Request().Header, body) {
		s.logger.Warn("rejected event with invalid signature")
		return c.NoContent(http.StatusUnauthorized)
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		s.logger.Error("failed to parse event payload", "error", err)
		return c.NoContent(http.StatusBadRequest)
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		return c.String(http.StatusOK, challenge.Challenge)

	case slackevents.CallbackEvent:
		s.dispatch(event)
		// Slack wants the ack within 3 seconds; processing continues in the
		// background.
		return c.NoContent(http.StatusOK)

	default:
		return c.NoContent(http.StatusOK)
	}
}

func (s *Server) validSignature(header http.Header, body []byte) bool {
	verifier, err := slackgo.NewSecretsVerifier(header, s.signingSecret)
	if err != nil {
		return false
	}
	if _, err := verifier.Write(body); err != nil {
		return false
	}
	return verifier.Ensure() == nil
}

func (s *Server) dispatch(event slackevents.EventsAPIEvent) {
	eventID := ""
	if callback, ok := event.Data.(*slackevents.EventsAPICallbackEvent); ok {
		eventID = callback.EventID
	}

	// The request context dies with the ack, so background processing gets a
	// fresh one carrying only the logger.
	ctx := core.WithLogger(context.Background(), s.logger)

	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		mention := bot.Mention{
			EventID:   eventID,
			Channel:   ev.Channel,
			User:      ev.User,
			Text:      ev.Text,
			Timestamp: ev.TimeStamp,
		}
		go s.handler.HandleMention(ctx, mention)

	case *slackevents.MessageEvent:
		msg := bot.Message{
			EventID:   eventID,
			Channel:   ev.Channel,
			User:      ev.User,
			BotID:     ev.BotID,
			Text:      ev.Text,
			Timestamp: ev.TimeStamp,
		}
		go s.handler.HandleMessage(ctx, msg)

	default:
		s.logger.Debug("ignoring unhandled event type", "event_id", eventID)
	}
}
