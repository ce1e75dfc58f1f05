package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storefront/mail"
	"storefront/middleware"
	"storefront/model"
	"storefront/payment"
	"storefront/session"
)

const (
	testWebhookSecret = "whsec_test"
	testPassword      = "password123"
)

type fakeGateway struct {
	lastReq   payment.CheckoutRequest
	sessionID string
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.lastReq = req
	if g.sessionID == "" {
		g.sessionID = "cs_test_1"
	}
	return &payment.CheckoutSession{
		ID:  g.sessionID,
		URL: "https://pay.example.com/" + g.sessionID,
	}, nil
}

type testEnv struct {
	app        *fiber.App
	db         *gorm.DB
	sessions   *session.Store
	redis      *redis.Client
	gateway    *fakeGateway
	imageDir   string
	invoiceDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.Order{},
		&model.FailedConfirmation{},
	))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	env := &testEnv{
		db:         db,
		sessions:   session.NewStore(rdb, time.Hour),
		redis:      rdb,
		gateway:    &fakeGateway{},
		imageDir:   t.TempDir(),
		invoiceDir: t.TempDir(),
	}

	validate := validator.New()
	app := fiber.New()
	auth := middleware.AuthRequired(env.sessions, db)

	// Same routing table main.go builds via the routes package; registered
	// inline here because the routes package imports this one.
	authCtrl := &AuthController{
		DB: db, Sessions: env.sessions,
		Mailer:   mail.New("", "", "", "", "shop@example.com"),
		Validate: validate, BaseURL: "http://shop.test",
	}
	app.Post("/signup", authCtrl.Signup)
	app.Post("/login", authCtrl.Login)
	app.Post("/logout", authCtrl.Logout)
	app.Post("/reset", authCtrl.RequestReset)
	app.Post("/reset/:token", authCtrl.CompleteReset)

	sc := &ShopController{DB: db}
	cc := &CartController{DB: db}
	oc := &OrderController{DB: db, Gateway: env.gateway, BaseURL: "http://shop.test", InvoiceDir: env.invoiceDir}
	wc := &WebhookController{DB: db, Redis: rdb, WebhookSecret: testWebhookSecret}
	app.Get("/products", sc.ListProducts)
	app.Get("/products/:id", sc.GetProduct)
	app.Get("/search", sc.Search)
	app.Get("/cart", auth, cc.Get)
	app.Post("/cart", auth, cc.AddItem)
	app.Post("/cart-delete-item", auth, cc.RemoveItem)
	app.Post("/checkout", auth, oc.Checkout)
	app.Get("/orders", auth, oc.ListOrders)
	app.Get("/orders/:id", auth, oc.GetInvoice)
	app.Post("/webhook/payment", wc.HandlePaymentConfirmation)

	ac := &AdminController{DB: db, Validate: validate, ImageDir: env.imageDir}
	admin := app.Group("/admin", auth)
	admin.Get("/products", ac.ListProducts)
	admin.Post("/products", ac.CreateProduct)
	admin.Put("/products/:id", ac.UpdateProduct)
	admin.Delete("/products/:id", ac.DeleteProduct)

	env.app = app
	return env
}

func (e *testEnv) createUser(t *testing.T, email string) model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.User{Email: email, Password: string(hashed), Name: "Test User"}
	require.NoError(t, e.db.Create(&user).Error)
	require.NoError(t, e.db.Create(&model.Cart{UserID: user.ID, Items: model.CartItems{}}).Error)
	return user
}

func (e *testEnv) login(t *testing.T, user model.User) string {
	t.Helper()
	sid, err := e.sessions.Create(context.Background(), user.ID)
	require.NoError(t, err)
	return sid
}

func (e *testEnv) seedProduct(t *testing.T, ownerID uint, title string, price float64, desc string) model.Product {
	t.Helper()
	p := model.Product{Title: title, Price: price, Description: desc, ImageURL: "images/x.png", OwnerID: ownerID}
	require.NoError(t, e.db.Create(&p).Error)
	return p
}

func (e *testEnv) jsonRequest(t *testing.T, method, path string, payload interface{}, sid string) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sid})
	}
	return req
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

// multipartProductForm builds the admin product form with an optional image
// part carrying the given content type.
func multipartProductForm(t *testing.T, fields map[string]string, imageName, imageType string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	if imageName != "" {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, imageName))
		hdr.Set("Content-Type", imageType)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG fake image bytes"))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func signedWebhookRequest(t *testing.T, event interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/webhook/payment", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(payment.SignatureHeader, payment.SignatureHeaderValue(body, testWebhookSecret, time.Now()))
	return req
}

func confirmationEvent(eventID, sessionID, email string, amount int64) map[string]interface{} {
	return map[string]interface{}{
		"id":   eventID,
		"type": payment.EventCheckoutCompleted,
		"data": map[string]interface{}{
			"session_id":     sessionID,
			"customer_email": email,
			"amount_total":   amount,
		},
	}
}
