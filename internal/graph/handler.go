package graph

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/graphql-go/graphql"
	"github.com/rdlima/go-auth-api/internal/auth"
	"github.com/rs/zerolog/log"
)

// Handler serves the POST /graphql endpoint. It runs the shared request
// authenticator before execution and places the result (possibly nil) into
// the execution context for resolvers to inspect.
type Handler struct {
	schema     graphql.Schema
	authn      *auth.Authenticator
	production bool
}

// NewHandler creates a new GraphQL HTTP handler.
func NewHandler(schema graphql.Schema, authn *auth.Authenticator, production bool) *Handler {
	return &Handler{schema: schema, authn: authn, production: production}
}

// request mirrors the standard GraphQL POST body.
type request struct {
	Query         string          `json:"query"`
	Variables     json.RawMessage `json:"variables"`
	OperationName string          `json:"operationName"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer h.recoverPanic(w)

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrors(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	variables, err := prepareVariables(req.Variables)
	if err != nil {
		respondErrors(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if user := h.authn.Authenticate(r); user != nil {
		ctx = auth.WithUser(ctx, user)
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// prepareVariables coerces the variables parameter, which clients may send
// as a JSON object, as a string containing JSON, or omit entirely. A string
// that fails to parse is a request-level error, not an empty variable set,
// and any other type is a broken client contract.
func prepareVariables(raw json.RawMessage) (map[string]interface{}, error) {
	if len(raw) == 0 {
		return map[string]interface{}{}, nil
	}

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("malformed variables: %v", err)
	}

	switch v := value.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case string:
		if v == "" {
			return map[string]interface{}{}, nil
		}
		var vars map[string]interface{}
		if err := json.Unmarshal([]byte(v), &vars); err != nil {
			return nil, fmt.Errorf("malformed variables: %v", err)
		}
		if vars == nil {
			vars = map[string]interface{}{}
		}
		return vars, nil
	case map[string]interface{}:
		return v, nil
	default:
		return nil, fmt.Errorf("unexpected variables type %T", value)
	}
}

// recoverPanic converts an execution panic into a 500 response. Development
// includes the message and stack trace in the body; production returns a
// generic failure and keeps the detail in the server log.
func (h *Handler) recoverPanic(w http.ResponseWriter) {
	rec := recover()
	if rec == nil {
		return
	}

	stack := string(debug.Stack())
	log.Error().Interface("panic", rec).Str("stack", stack).Msg("GraphQL execution panicked")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)

	message := map[string]string{"message": "Internal server error"}
	if !h.production {
		message = map[string]string{
			"message":   fmt.Sprintf("%v", rec),
			"backtrace": stack,
		}
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]string{message},
		"data":   nil,
	})
}

// respondErrors writes a request-level error in the GraphQL response shape.
func respondErrors(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]string{{"message": message}},
		"data":   nil,
	})
}
