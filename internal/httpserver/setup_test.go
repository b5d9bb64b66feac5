package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/models"
	"github.com/Skotchmaster/autoparts_shop/internal/repo"
	"github.com/Skotchmaster/autoparts_shop/internal/service"
	"github.com/Skotchmaster/autoparts_shop/internal/transport"
	pkgdb "github.com/Skotchmaster/autoparts_shop/pkg/db"
	middleware "github.com/Skotchmaster/autoparts_shop/pkg/middleware/auth"
)

const testJWTSecret = "test-jwt-secret"

type testEnv struct {
	E  *echo.Echo
	DB *gorm.DB

	Catalog *CatalogHTTP
	Cart    *CartHTTP
	Order   *OrderHTTP
	Payment *PaymentHTTP
	Profile *ProfileHTTP

	Customer domain.Customer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := pkgdb.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := &repo.GormRepo{DB: db}
	require.NoError(t, store.Migrate(context.Background()))

	env := &testEnv{
		E:        echo.New(),
		DB:       db,
		Catalog:  &CatalogHTTP{Svc: &service.CatalogService{Store: store}},
		Cart:     &CartHTTP{Svc: &service.CartService{Store: store}},
		Order:    &OrderHTTP{Svc: &service.OrderService{Store: store}},
		Payment:  &PaymentHTTP{Svc: &service.PaymentService{Store: store}},
		Profile:  &ProfileHTTP{Svc: &service.ProfileService{Store: store}},
		Customer: domain.Customer{ID: uuid.New(), Email: "buyer@example.com", Name: "buyer"},
	}
	Register(env.E, &Deps{
		CatalogHandler: env.Catalog,
		CartHandler:    env.Cart,
		OrderHandler:   env.Order,
		PaymentHandler: env.Payment,
		ProfileHandler: env.Profile,
		JWTSecret:      []byte(testJWTSecret),
		Ready:          store.Ping,
	})
	return env
}

// doJSONRequest builds a context for calling a handler directly as the test customer.
func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := env.E.NewContext(req, rec)
	c.Set(middleware.ContextUserID, env.Customer.ID.String())
	c.Set(middleware.ContextEmail, env.Customer.Email)
	c.Set(middleware.ContextUsername, env.Customer.Name)
	return rec, c
}

func (env *testEnv) part(t *testing.T, price int64, inventory int) models.Part {
	t.Helper()
	p := models.Part{Name: "brake disc", Price: price, Inventory: inventory}
	require.NoError(t, env.DB.Create(&p).Error)
	return p
}

func (env *testEnv) profile(t *testing.T) {
	t.Helper()
	require.NoError(t, env.DB.Create(&models.Person{
		FullName:   "Buyer",
		Email:      env.Customer.Email,
		PostalCode: "10115",
		Address:    "Unter den Linden 1, Berlin",
	}).Error)
}

// httpError unwraps the error a handler returned into status and body.
func httpError(t *testing.T, err error) (int, transport.ErrorResponse) {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected *echo.HTTPError, got %v", err)
	body, _ := he.Message.(transport.ErrorResponse)
	return he.Code, body
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
