package company

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Adham-Aroubite/hr-back/internal/auth"
	"github.com/Adham-Aroubite/hr-back/internal/database"
	"github.com/Adham-Aroubite/hr-back/internal/middleware"
)

var testDB *database.DBinstanceStruct
var testAuth *auth.Authenticator

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	var teardown func(context.Context) error
	teardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}
	testAuth = auth.NewAuthenticator(testDB, auth.NewGormSessionStore(testDB.DB, time.Hour), auth.NewTokenIssuer("company-secret", "hr-back-test"))

	code := m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if teardown != nil {
		_ = teardown(ctx)
	}
	cancel()
	os.Exit(code)
}

func setupRouter() *gin.Engine {
	r := gin.New()
	cc := NewCompanyController(testDB)
	g := r.Group("/companies", middleware.RequireAuth(testAuth))
	g.GET("/", cc.GetCompanies)
	g.POST("/", cc.CreateCompany)
	g.GET("/:id/", cc.GetCompanyByID)
	g.PUT("/:id/", cc.ReplaceCompany)
	g.PATCH("/:id/", cc.EditCompany)
	g.DELETE("/:id/", cc.DeleteCompany)
	return r
}

func tokenFor(t *testing.T, email string) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testAuth, email, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}
