package nurserysdk

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIErrorWriteError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ErrEmailInUse.WriteError(rec)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, ErrorCodeEmailInUse, body.Error)
	require.NotEmpty(t, body.ErrorDescription)
}

func TestParseErrorResponse(t *testing.T) {
	t.Parallel()

	t.Run("success is nil", func(t *testing.T) {
		require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusCreated}, nil))
	})

	t.Run("error body", func(t *testing.T) {
		err := parseErrorResponse(&http.Response{StatusCode: http.StatusUnauthorized},
			[]byte(`{"error":"invalid_credentials","error_description":"nope"}`))
		require.ErrorIs(t, err, ErrInvalidCredentials)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, "nope", apiErr.Description)
	})

	t.Run("validation body", func(t *testing.T) {
		err := parseErrorResponse(&http.Response{StatusCode: http.StatusBadRequest},
			[]byte(`{"code":"validation_error","message":"bad fields","details":{"email":"required"}}`))

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, ErrorCodeValidation, apiErr.Code)
		require.Equal(t, "bad fields", apiErr.Description)
	})

	t.Run("unknown body", func(t *testing.T) {
		err := parseErrorResponse(&http.Response{StatusCode: http.StatusBadGateway}, []byte("<html>"))

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, ErrorCodeServerError, apiErr.Code)
		require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	})
}

func TestAPIErrorIsComparesStatusAndCode(t *testing.T) {
	t.Parallel()

	custom := NewAPIError(http.StatusUnauthorized, ErrorCodeInvalidCredentials, "other text")
	require.ErrorIs(t, custom, ErrInvalidCredentials)
	require.NotErrorIs(t, custom, ErrUserNotFound)
	require.NotErrorIs(t, NewAPIError(http.StatusBadRequest, ErrorCodeInvalidCredentials, ""), ErrInvalidCredentials)
}
