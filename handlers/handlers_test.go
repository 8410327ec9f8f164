package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/Harish-hex/SIH-HealthTwin/classifier"
	"github.com/Harish-hex/SIH-HealthTwin/config"
	"github.com/Harish-hex/SIH-HealthTwin/database"
	"github.com/Harish-hex/SIH-HealthTwin/repository"
	"github.com/Harish-hex/SIH-HealthTwin/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	repo   *repository.Repository
	db     *gorm.DB
	cache  *services.CacheService
	auth   *services.AuthService
	mr     *miniredis.Miniredis
}

func newTestEnv(t *testing.T, model classifier.Classifier) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	repo := repository.New(db, nil)
	_, err = repo.SeedWorkers(t.Context())
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cache, err := services.NewCacheService(config.RedisConfig{Host: mr.Host(), Port: port, ConnectAttempts: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	if model == nil {
		model, err = classifier.LoadDefault()
		require.NoError(t, err)
	}

	creds := services.DefaultCredentials()
	for i := range creds {
		hash, err := bcrypt.GenerateFromPassword([]byte(creds[i].Password), bcrypt.MinCost)
		require.NoError(t, err)
		creds[i].PasswordHash = string(hash)
	}
	provider, err := services.NewStaticProvider(creds)
	require.NoError(t, err)
	auth := services.NewAuthService(
		config.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
		provider,
		config.AuthConfig{AshaDashboardURL: "http://localhost:5174", HealthDashboardURL: "http://localhost:5173"},
	)

	router := NewRouter(Dependencies{
		Repo:        repo,
		Predictions: services.NewPredictionService(model, repo, cache, nil),
		Auth:        auth,
		Cache:       cache,
		CORS:        config.CORSConfig{AllowedOrigins: "*"},
	})

	return &testEnv{router: router, repo: repo, db: db, cache: cache, auth: auth, mr: mr}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

var (
	choleraReading = map[string]interface{}{
		"ph": 8.0, "turbidity": 7.5, "tds": 1800, "people_affected_per_5000": 800,
		"location": "Riverside", "state": "Assam", "district": "Kamrup", "collected_by": "asha001",
	}
	safeReading = map[string]interface{}{
		"ph": "6.2", "turbidity": "1.5", "tds": "250", "people_affected_per_5000": "50",
	}
)
