package request

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxRequestBodySize = 1 << 20 // 1MB

// DecodeJSON decodes JSON request body into the provided struct with size limit
func DecodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()

	limitedReader := io.LimitReader(r.Body, maxRequestBodySize)

	if err := json.NewDecoder(limitedReader).Decode(v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}

// GetUUIDParam extracts a UUID parameter from the URL
func GetUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	param := chi.URLParam(r, key)
	if param == "" {
		return uuid.Nil, fmt.Errorf("missing parameter: %s", key)
	}

	id, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid UUID: %w", err)
	}

	return id, nil
}

// GetIntQuery extracts an integer query parameter with a default value.
// A present but non-numeric value is a coercion error.
func GetIntQuery(r *http.Request, key string, defaultValue int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parameter %s must be a number", key)
	}

	return intValue, nil
}

// GetStringQuery extracts an optional string query parameter; nil when absent
func GetStringQuery(r *http.Request, key string) *string {
	if !r.URL.Query().Has(key) {
		return nil
	}
	value := r.URL.Query().Get(key)
	return &value
}

// GetIntQueryPtr extracts an optional integer query parameter; nil when absent
func GetIntQueryPtr(r *http.Request, key string) (*int, error) {
	if !r.URL.Query().Has(key) {
		return nil, nil
	}

	intValue, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return nil, fmt.Errorf("parameter %s must be a number", key)
	}

	return &intValue, nil
}

// GetFloatQueryPtr extracts an optional float query parameter; nil when absent
func GetFloatQueryPtr(r *http.Request, key string) (*float64, error) {
	if !r.URL.Query().Has(key) {
		return nil, nil
	}

	floatValue, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil {
		return nil, fmt.Errorf("parameter %s must be a number", key)
	}

	return &floatValue, nil
}
