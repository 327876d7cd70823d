package errors

import (
	"fmt"
	"strings"
)

// APIError representa un fallo de transporte o un estado HTTP no exitoso
// de la API upstream.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api error [%s]: %v", e.Endpoint, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("api error [%s]: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("api error [%s]: status %d", e.Endpoint, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError crea un error a partir de un estado HTTP no exitoso.
func NewAPIError(endpoint string, statusCode int, body string) *APIError {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Body:       body,
	}
}

// WrapAPIError crea un error de transporte a partir de un fallo de red
// o de una respuesta malformada.
func WrapAPIError(endpoint string, err error) *APIError {
	return &APIError{
		Endpoint: endpoint,
		Err:      err,
	}
}

// GraphQLError indica una respuesta 200 cuyo payload trae un arreglo `errors`.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("graphql error: %s", strings.Join(e.Messages, "; "))
}

// NewGraphQLError crea un nuevo error de lógica upstream.
func NewGraphQLError(messages []string) *GraphQLError {
	return &GraphQLError{Messages: messages}
}
