package semaphore

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/interactive-solutions/go-semaphore/internal"
)

// HttpHandler exposes a Gateway over http for internal callers. Gateway
// responses are passed through with their original status code.
type HttpHandler struct {
	gateway      Gateway
	dispatchRepo DispatchRepository
	logger       logrus.FieldLogger
}

// NewHttpHandler creates the handler. The /dispatches route is only served
// when dispatchRepo is not nil.
func NewHttpHandler(gateway Gateway, dispatchRepo DispatchRepository, logger logrus.FieldLogger) *HttpHandler {
	if logger == nil {
		logger = logrus.New()
	}

	return &HttpHandler{
		gateway:      gateway,
		dispatchRepo: dispatchRepo,
		logger:       logger,
	}
}

func (h *HttpHandler) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/balance", h.passthrough("balance", h.gateway.Balance)).Methods(http.MethodGet)
	router.HandleFunc("/messages", h.SendMessage).Methods(http.MethodPost)
	router.HandleFunc("/account", h.passthrough("account", h.gateway.Account)).Methods(http.MethodGet)
	router.HandleFunc("/account/users", h.passthrough("users", h.gateway.Users)).Methods(http.MethodGet)
	router.HandleFunc("/account/sendernames", h.passthrough("sendernames", h.gateway.SenderNames)).Methods(http.MethodGet)
	router.HandleFunc("/account/transactions", h.passthrough("transactions", h.gateway.Transactions)).Methods(http.MethodGet)

	if h.dispatchRepo != nil {
		router.HandleFunc("/dispatches", h.GetRecentDispatches).Methods(http.MethodGet)
	}

	return router
}

func (h *HttpHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	body := &internal.SendMessageRequest{}
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		h.writeError(w, "Failed to parse incoming json", http.StatusBadRequest)
		return
	}

	if body.Number == "" {
		h.writeError(w, "Missing number", http.StatusBadRequest)
		return
	}

	response, err := h.gateway.Send(r.Context(), body.Number, body.Message)
	h.respond(w, "send", response, err)
}

func (h *HttpHandler) GetRecentDispatches(w http.ResponseWriter, r *http.Request) {
	limit := 0

	if value := r.URL.Query().Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			h.writeError(w, "Invalid limit", http.StatusBadRequest)
			return
		}

		limit = parsed
	}

	dispatches, err := h.dispatchRepo.GetRecent(limit)
	if err != nil {
		h.logger.WithError(err).Error("failed to retrieve dispatches")
		h.writeError(w, "Failed to retrieve dispatches", http.StatusInternalServerError)
		return
	}

	payload := struct {
		Data []Dispatch `json:"data"`
	}{dispatches}

	data, err := json.Marshal(payload)
	if err != nil {
		h.writeError(w, "Failed to convert to json", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (h *HttpHandler) passthrough(operation string, call func(ctx context.Context) (Response, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response, err := call(r.Context())
		h.respond(w, operation, response, err)
	}
}

func (h *HttpHandler) respond(w http.ResponseWriter, operation string, response Response, err error) {
	switch {
	case err == nil, IsStatusError(err):
		contentType := response.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/json"
		}

		status := response.StatusCode
		if status == 0 {
			status = http.StatusOK
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		w.Write(response.Body)

	case IsValidationError(err):
		h.writeError(w, err.Error(), http.StatusBadRequest)

	default:
		h.logger.
			WithField("operation", operation).
			WithError(err).
			Error("semaphore request failed")

		h.writeError(w, "Failed to reach semaphore", http.StatusBadGateway)
	}
}

func (h *HttpHandler) writeError(w http.ResponseWriter, message string, status int) {
	data, err := json.Marshal(internal.ErrorResponse{Error: message})
	if err != nil {
		http.Error(w, message, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
