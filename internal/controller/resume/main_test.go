package resume

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
	"github.com/Adham-Aroubite/hr-back/internal/model"
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
	testAuth = auth.NewAuthenticator(testDB, auth.NewGormSessionStore(testDB.DB, time.Hour), auth.NewTokenIssuer("resume-secret", "hr-back-test"))

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
	rc := NewResumeController(testDB)
	g := r.Group("/resume-data", middleware.RequireAuth(testAuth), middleware.SizeLimit(1<<20))
	g.GET("/", rc.GetResumes)
	g.POST("/", middleware.CheckRole(model.RoleCandidate), rc.CreateResume)
	g.GET("/:id/", rc.GetResumeByID)
	g.PUT("/:id/", rc.ReplaceResume)
	g.PATCH("/:id/", rc.EditResume)
	g.DELETE("/:id/", rc.DeleteResume)
	return r
}

func tokenFor(t *testing.T, email string) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testAuth, email, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}
