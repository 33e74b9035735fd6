package serverutils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"greenregu-be/internal/entity"
	"greenregu-be/pkg/chunking"
	"greenregu-be/pkg/rag"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, resp *http.Response) BaseResponse[any] {
	t.Helper()
	defer resp.Body.Close()
	var out BaseResponse[any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestStatusFor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fiber error", fiber.NewError(fiber.StatusForbidden, "nope"), fiber.StatusForbidden},
		{"validation", &ValidationError{Fields: map[string]string{"Query": "is required"}}, fiber.StatusBadRequest},
		{"not found", fmt.Errorf("document x: %w", entity.ErrNotFound), fiber.StatusNotFound},
		{"bad upload", fmt.Errorf("%w: not a pdf", entity.ErrInvalidUpload), fiber.StatusBadRequest},
		{"busy", entity.ErrAlreadyRunning, fiber.StatusConflict},
		{"unreadable pdf", &chunking.ExtractionError{DocumentID: "d", Err: errors.New("eof")}, fiber.StatusUnprocessableEntity},
		{"backend failure", &rag.BackendError{Backend: rag.BackendVector, Err: errors.New("refused")}, fiber.StatusBadGateway},
		{"backend timeout", rag.NewBackendError(ctx, rag.BackendGeneration, errors.New("slow")), fiber.StatusGatewayTimeout},
		{"wrapped backend", fmt.Errorf("chat: %w", &rag.BackendError{Backend: rag.BackendStore, Err: errors.New("x")}), fiber.StatusBadGateway},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := StatusFor(tt.err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fmt.Errorf("document abc: %w", entity.ErrNotFound)
	})
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(SuccessResponse("fine", map[string]int{"n": 1}))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, fiber.StatusNotFound, body.Code)
	assert.Contains(t, body.Message, "not found")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeEnvelope(t, resp)
	assert.True(t, body.Success)
	assert.Equal(t, "fine", body.Message)
}

func TestValidateRequest(t *testing.T) {
	type request struct {
		Query string `validate:"required,max=10"`
		TopK  int    `validate:"min=0,max=50"`
	}

	tests := []struct {
		name   string
		req    request
		fields []string
	}{
		{name: "valid", req: request{Query: "solar", TopK: 5}},
		{name: "missing query", req: request{TopK: 5}, fields: []string{"Query"}},
		{name: "too long and too many", req: request{Query: "a very long question", TopK: 99}, fields: []string{"Query", "TopK"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Len(t, vErr.Fields, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, vErr.Fields, f)
			}
		})
	}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJwtMiddleware(t *testing.T) {
	const secret = "test-secret"
	app := fiber.New()
	app.Get("/me", JwtMiddleware(secret), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"not bearer", "Basic abc", fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", jwt.MapClaims{"user_id": "u1"}), fiber.StatusUnauthorized},
		{"no user claim", "Bearer " + signToken(t, secret, jwt.MapClaims{"role": "x"}), fiber.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, secret, jwt.MapClaims{"user_id": "u1", "exp": time.Now().Add(-time.Hour).Unix()}), fiber.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, secret, jwt.MapClaims{"user_id": "u1"}), fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	fixed := time.Date(2026, 1, 1, 10, 0, 5, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	app := fiber.New()
	app.Use(RateLimitMiddleware(rdb, 2, nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, codes)

	fixed = fixed.Add(time.Minute)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRateLimitMiddlewareFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	app := fiber.New()
	app.Use(RateLimitMiddleware(rdb, 1, nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}
