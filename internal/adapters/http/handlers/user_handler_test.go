package handlers_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/dto"
)

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	body := dto.RegisterUserRequest{Name: "Carol", Email: "carol@example.com"}
	rec := call(t, e.users.Register, http.MethodPost, "/api/v1/users", nil, body, nil)

	requireStatus(t, rec, http.StatusCreated)
	resp := decodeJSON[dto.UserResponse](t, rec)
	if resp.ID == 0 {
		t.Error("ID = 0, want assigned")
	}
	if resp.Email != "carol@example.com" {
		t.Errorf("Email = %q, want %q", resp.Email, "carol@example.com")
	}
}

func TestRegister_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"duplicate email ignores case", dto.RegisterUserRequest{Name: "A", Email: "ALICE@example.com"}, http.StatusConflict},
		{"missing email", dto.RegisterUserRequest{Name: "A"}, http.StatusBadRequest},
		{"malformed email", dto.RegisterUserRequest{Name: "A", Email: "not-an-email"}, http.StatusBadRequest},
		{"malformed JSON", "{bad", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newEnv(t)

			rec := call(t, e.users.Register, http.MethodPost, "/api/v1/users", nil, tt.body, nil)
			requireStatus(t, rec, tt.wantStatus)
		})
	}
}

func TestMe(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	rec := call(t, e.users.Me, http.MethodGet, "/api/v1/users/me", e.bob, nil, nil)
	requireStatus(t, rec, http.StatusOK)
	if resp := decodeJSON[dto.UserResponse](t, rec); resp.ID != e.bob.ID {
		t.Errorf("ID = %d, want %d", resp.ID, e.bob.ID)
	}

	rec = call(t, e.users.Me, http.MethodGet, "/api/v1/users/me", nil, nil, nil)
	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestGetUser(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	params := map[string]string{"id": strconv.FormatInt(e.alice.ID, 10)}

	rec := call(t, e.users.GetUser, http.MethodGet, "/api/v1/users/1", e.bob, nil, params)
	requireStatus(t, rec, http.StatusOK)

	rec = call(t, e.users.GetUser, http.MethodGet, "/api/v1/users/1", nil, nil, params)
	requireStatus(t, rec, http.StatusUnauthorized)

	rec = call(t, e.users.GetUser, http.MethodGet, "/api/v1/users/999", e.bob, nil, idParam(999))
	requireStatus(t, rec, http.StatusNotFound)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	body := dto.UpdateProfileRequest{Name: strPtr(testUpdatedValue)}
	rec := call(t, e.users.UpdateProfile, http.MethodPatch, "/api/v1/users/me", e.alice, body, nil)
	requireStatus(t, rec, http.StatusOK)
	if resp := decodeJSON[dto.UserResponse](t, rec); resp.Name != testUpdatedValue {
		t.Errorf("Name = %q, want %q", resp.Name, testUpdatedValue)
	}

	body = dto.UpdateProfileRequest{Email: strPtr("bob@example.com")}
	rec = call(t, e.users.UpdateProfile, http.MethodPatch, "/api/v1/users/me", e.alice, body, nil)
	requireStatus(t, rec, http.StatusConflict)

	rec = call(t, e.users.UpdateProfile, http.MethodPatch, "/api/v1/users/me", nil,
		dto.UpdateProfileRequest{Name: strPtr("x")}, nil)
	requireStatus(t, rec, http.StatusUnauthorized)
}
