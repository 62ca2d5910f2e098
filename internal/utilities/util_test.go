package utilities

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adham-Aroubite/hr-back/internal/model"
)

func contextWithHeader(header string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}
	return c
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "standard", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lower case scheme", header: "bearer abc", want: "abc"},
		{name: "missing", header: "", wantErr: true},
		{name: "scheme only", header: "Bearer ", wantErr: true},
		{name: "other scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(contextWithHeader(tt.header))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoBearerToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRequester(t *testing.T) {
	c := contextWithHeader("")

	_, err := ExtractRequester(c)
	assert.Error(t, err)

	c.Set(RequesterKey, "not a requester")
	_, err = ExtractRequester(c)
	assert.Error(t, err)

	want := model.Requester{User: model.User{Username: "alice"}}
	c.Set(RequesterKey, want)
	got, err := ExtractRequester(c)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.User.Username)
}

func TestMergeNonEmpty(t *testing.T) {
	website := "https://example.com"
	description := "keep"
	dst := model.EditableCompanyInfo{Name: "Old", Description: &description}
	src := model.EditableCompanyInfo{Website: &website}

	MergeNonEmpty(&dst, &src)

	assert.Equal(t, "Old", dst.Name)
	assert.Equal(t, "keep", *dst.Description)
	assert.Equal(t, website, *dst.Website)
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("Sup3rSecret!")
	require.NoError(t, err)

	assert.NotEqual(t, "Sup3rSecret!", hashed)
	assert.True(t, CheckPassword(hashed, "Sup3rSecret!"))
	assert.False(t, CheckPassword(hashed, "wrong"))
	assert.False(t, CheckPassword("", "anything"))
}

func TestNewFieldErrors(t *testing.T) {
	fe := NewFieldErrors(validation.Errors{"email": errors.New("must be a valid email address")})
	assert.Equal(t, FieldErrors{"email": {"must be a valid email address"}}, fe)

	fe = NewFieldErrors(errors.New("boom"))
	assert.Equal(t, FieldErrors{NonFieldErrors: {"boom"}}, fe)
}

func TestPostgresViolations(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
	constraint, ok := UniqueViolation(errors.Join(errors.New("insert failed"), unique))
	assert.True(t, ok)
	assert.Equal(t, "idx_users_email", constraint)

	_, ok = UniqueViolation(errors.New("plain"))
	assert.False(t, ok)

	assert.True(t, ForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, ForeignKeyViolation(unique))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{model.RoleHR, model.RoleCandidate}, model.RoleHR))
	assert.False(t, Contains([]string{model.RoleCandidate}, model.RoleHR))
}

func TestRegistrationCode(t *testing.T) {
	code, err := RegistrationCode(3)
	require.NoError(t, err)
	assert.Regexp(t, `^[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}$`, code)

	other, err := RegistrationCode(3)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)

	single, err := RegistrationCode(0)
	require.NoError(t, err)
	assert.Len(t, single, 4)
}
