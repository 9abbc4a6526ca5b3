package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/auth"
	"github.com/crewcall/crewcall-backend-go/internal/handler/http/response"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/jwt"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
)

type EventsHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventsHandlerImpl struct {
	jwtService jwt.Service
	hub        *sse.Hub
}

func NewEventsHandler(jwtService jwt.Service, hub *sse.Hub) EventsHandler {
	return &eventsHandlerImpl{
		jwtService: jwtService,
		hub:        hub,
	}
}

// GetSSEToken exchanges a valid access token for a short-lived stream token.
func (h *eventsHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		response.Unauthorized(w, "user_id claim is missing or invalid")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, auth.SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream holds the connection open and relays hub events, including the
// schedule partition changes the sweeper broadcasts.
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Token arrives as a query parameter; EventSource cannot set headers.
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()
	slog.Debug("event stream opened", "user_id", userID, "open_streams", h.hub.TotalSubscribers())

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":\"%s\"}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
