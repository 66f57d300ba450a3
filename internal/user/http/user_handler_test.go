package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	userDomain "github.com/natterhq/natter/internal/user/domain"
	userUseCase "github.com/natterhq/natter/internal/user/usecase"
)

// mockUserUseCase is a mock implementation of usecase.UseCase.
type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) Register(ctx context.Context, input userUseCase.RegisterInput) (*userDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) VerifyCredentials(ctx context.Context, username, password string) (*userDomain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupUserRouter(useCase userUseCase.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewUserHandler(useCase, testLogger())
	router.POST("/users", handler.RegisterUserHandler)
	return router
}

func TestUserHandler_RegisterUserHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockUseCase := &mockUserUseCase{}
		mockUseCase.On("Register", mock.Anything, userUseCase.RegisterInput{
			Username: "alice",
			Password: "long-enough-password",
		}).Return(&userDomain.User{Username: "alice"}, nil).Once()

		router := setupUserRouter(mockUseCase)

		body := `{"username":"alice","password":"long-enough-password"}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/users/alice", w.Header().Get("Location"))
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		mockUseCase := &mockUserUseCase{}
		router := setupUserRouter(mockUseCase)

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{not json`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "Register")
	})

	t.Run("Error_InvalidUsername", func(t *testing.T) {
		mockUseCase := &mockUserUseCase{}
		router := setupUserRouter(mockUseCase)

		body := `{"username":"9bad","password":"long-enough-password"}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Register")
	})

	t.Run("Error_DuplicateUsername", func(t *testing.T) {
		mockUseCase := &mockUserUseCase{}
		mockUseCase.On("Register", mock.Anything, mock.AnythingOfType("usecase.RegisterInput")).
			Return(nil, userDomain.ErrUserAlreadyExists).
			Once()

		router := setupUserRouter(mockUseCase)

		body := `{"username":"alice","password":"long-enough-password"}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "conflict")
		mockUseCase.AssertExpectations(t)
	})
}
