package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"events-webapp/auth"
	"events-webapp/config"
	"events-webapp/database"
	"events-webapp/handlers"
	"events-webapp/messages"
	"events-webapp/middleware"
	"events-webapp/model"
	"events-webapp/router"
	"events-webapp/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "s3cret"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type Test struct {
	description  string
	method       string
	route        string
	bodyinput    string
	expectedCode int
	expectedBody string
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	app     *fiber.App
	cols    *database.Collections
	backend *database.Memory
	uploads string
}

func setupApp(t *testing.T) testApp {
	t.Helper()
	ctx := context.Background()

	public := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(public, "admin"), 0o755))
	for _, page := range []string{"index.html", "dashboard.html"} {
		require.NoError(t, os.WriteFile(filepath.Join(public, "admin", page), []byte("<html>"+page+"</html>"), 0o644))
	}

	cfg := &config.Config{
		SigningKey:    "test-secret",
		SessionTTL:    time.Hour,
		StorageDriver: config.StorageLocal,
		UploadDir:     t.TempDir(),
		PublicBaseURL: "http://localhost:3000",
		PublicDir:     public,
		DefaultLocale: "en",
	}

	backend := database.NewMemory()
	cols := database.NewCollections(backend)
	provider := auth.NewProvider(cols.Users, cfg.SigningKey, cfg.SessionTTL)
	require.NoError(t, provider.EnsureUser(ctx, adminEmail, adminPassword, model.RoleAdmin))

	blobs, err := storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	require.NoError(t, err)

	h := handlers.New(cols, provider, storage.NewUploader(blobs), messages.NewCatalog(cfg.DefaultLocale), cfg.SessionTTL)
	h.Now = func() time.Time { return testNow }

	app := fiber.New()
	router.SetupRoutes(app, h, cfg)
	return testApp{app: app, cols: cols, backend: backend, uploads: cfg.UploadDir}
}

func (ta testApp) do(t *testing.T, method, route, body, token string) (*http.Response, envelope) {
	t.Helper()
	req, _ := http.NewRequest(method, route, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ta.send(t, req)
}

func (ta testApp) send(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	res, err := ta.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err, "Invalid test, error occured while body parsing")

	var env envelope
	_ = json.Unmarshal(raw, &env)
	return res, env
}

func (ta testApp) login(t *testing.T) string {
	t.Helper()
	res, env := ta.do(t, "POST", "/api/auth/login", `{"email":"`+adminEmail+`","password":"`+adminPassword+`"}`, "")
	require.Equal(t, 200, res.StatusCode)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (ta testApp) insertEvent(t *testing.T, e model.Event) string {
	t.Helper()
	id, err := ta.cols.Events.Insert(context.Background(), e)
	require.NoError(t, err)
	return id
}

func TestPing(t *testing.T) {
	ta := setupApp(t)
	req, _ := http.NewRequest("GET", "/ping", nil)
	res, err := ta.app.Test(req, -1)
	require.NoError(t, err)

	body, _ := io.ReadAll(res.Body)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestLogin(t *testing.T) {
	tests := []Test{
		{
			description:  "login without body",
			route:        "/api/auth/login",
			bodyinput:    `{}`,
			expectedCode: 400,
		},
		{
			description:  "login with wrong password",
			route:        "/api/auth/login",
			bodyinput:    `{"email":"admin@example.com","password":"guess"}`,
			expectedCode: 401,
			expectedBody: "Invalid email or password.",
		},
		{
			description:  "login with unknown user",
			route:        "/api/auth/login",
			bodyinput:    `{"email":"nobody@example.com","password":"guess"}`,
			expectedCode: 401,
			expectedBody: "Invalid email or password.",
		},
		{
			description:  "admin login",
			route:        "/api/auth/login",
			bodyinput:    `{"email":"Admin@Example.com","password":"s3cret"}`,
			expectedCode: 200,
		},
	}

	ta := setupApp(t)
	for _, test := range tests {
		res, env := ta.do(t, "POST", test.route, test.bodyinput, "")
		assert.Equalf(t, test.expectedCode, res.StatusCode, test.description)
		if test.expectedBody != "" {
			assert.Equalf(t, test.expectedBody, env.Message, test.description)
		}
		if res.StatusCode == 200 {
			assert.Containsf(t, res.Header.Get("Set-Cookie"), middleware.SessionCookie+"=", test.description)
			assert.Containsf(t, string(env.Data), `"redirect":"/admin/dashboard.html"`, test.description)
		}
	}
}

func TestLoginLocksOutAfterRepeatedFailures(t *testing.T) {
	ta := setupApp(t)
	for i := 0; i < auth.MaxFailedAttempts; i++ {
		res, _ := ta.do(t, "POST", "/api/auth/login", `{"email":"admin@example.com","password":"guess"}`, "")
		require.Equal(t, 401, res.StatusCode)
	}

	res, env := ta.do(t, "POST", "/api/auth/login", `{"email":"admin@example.com","password":"s3cret"}`, "")
	assert.Equal(t, 429, res.StatusCode)
	assert.Equal(t, `"auth/too-many-requests"`, string(env.Data))
}

func TestLoginMessageFollowsLanguage(t *testing.T) {
	ta := setupApp(t)
	req, _ := http.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"email":"admin@example.com","password":"guess"}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")

	res, env := ta.send(t, req)
	assert.Equal(t, 401, res.StatusCode)
	assert.Equal(t, "E-mail ou mot de passe invalide.", env.Message)
}

func TestAdminRoutesNeedToken(t *testing.T) {
	ta := setupApp(t)

	tests := []Test{
		{description: "no token", method: "GET", route: "/api/admin/bookings", expectedCode: 400},
		{description: "no token on delete", method: "DELETE", route: "/api/admin/events/abc", expectedCode: 400},
	}
	for _, test := range tests {
		res, _ := ta.do(t, test.method, test.route, test.bodyinput, "")
		assert.Equalf(t, test.expectedCode, res.StatusCode, test.description)
	}

	res, _ := ta.do(t, "GET", "/api/admin/bookings", "", "forged.token.value")
	assert.Equal(t, 401, res.StatusCode)

	res, env := ta.do(t, "GET", "/api/admin/me", "", ta.login(t))
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, string(env.Data), `"displayName":"Admin"`)
}

func TestAdminPagesRedirect(t *testing.T) {
	ta := setupApp(t)
	token := ta.login(t)

	tests := []struct {
		description      string
		route            string
		cookie           string
		expectedCode     int
		expectedLocation string
	}{
		{"anonymous dashboard goes to login", "/admin/dashboard.html", "", 302, "/admin/index.html"},
		{"anonymous login page is served", "/admin/index.html", "", 200, ""},
		{"signed in login page goes to dashboard", "/admin/index.html", token, 302, "/admin/dashboard.html"},
		{"signed in dashboard is served", "/admin/dashboard.html", token, 200, ""},
	}

	for _, test := range tests {
		req, _ := http.NewRequest("GET", test.route, nil)
		if test.cookie != "" {
			req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: test.cookie})
		}
		res, _ := ta.send(t, req)
		assert.Equalf(t, test.expectedCode, res.StatusCode, test.description)
		assert.Equalf(t, test.expectedLocation, res.Header.Get("Location"), test.description)
	}
}

func TestContactSubmission(t *testing.T) {
	ta := setupApp(t)

	res, env := ta.do(t, "POST", "/api/contacts",
		`{"name":"Jane","email":"jane@x.com","phone":"555","subject":"Hi","message":"Test","acceptance":false}`, "")
	assert.Equal(t, 400, res.StatusCode)
	assert.Equal(t, `["acceptance"]`, string(env.Data))

	res, env = ta.do(t, "POST", "/api/contacts",
		`{"name":" Jane ","email":"jane@x.com","phone":"555","subject":"Hi","message":"Test","acceptance":true}`, "")
	assert.Equal(t, 201, res.StatusCode)
	assert.Equal(t, "Thank you for your message! We will get back to you soon.", env.Message)
	assert.Contains(t, string(env.Data), `"resetForm":true`)

	contacts, err := ta.cols.Contacts.All(context.Background(), database.Query{})
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Jane", contacts[0].Name)
	assert.Equal(t, model.ContactNew, contacts[0].Status)
	assert.True(t, testNow.Equal(contacts[0].CreatedAt.Time))

	token := ta.login(t)
	res, env = ta.do(t, "GET", "/api/admin/contacts/"+contacts[0].Id.Hex(), "", token)
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, string(env.Data), `"status":"read"`)

	stored, err := ta.cols.Contacts.Get(context.Background(), contacts[0].Id.Hex())
	require.NoError(t, err)
	assert.Equal(t, model.ContactRead, stored.Status)
}

func TestBoothBookingFlow(t *testing.T) {
	ta := setupApp(t)
	open := ta.insertEvent(t, model.Event{
		Title:               "Expo",
		StartDate:           model.ParseInstant("2025-09-01"),
		BoothBookingEnabled: true,
		BoothOptions: []model.BoothOption{
			{ID: "std", Name: "Standard", Price: 500, Items: []string{"Table"}},
			{ID: "pro", Name: "Premium", Price: 1200, Items: []string{"Table", "Banner"}},
		},
	})
	closed := ta.insertEvent(t, model.Event{Title: "Closed", StartDate: model.ParseInstant("2025-09-01")})

	res, env := ta.do(t, "GET", "/api/events/"+open+"/booths", "", "")
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, string(env.Data), `"priceLabel":"$1,200"`)

	res, env = ta.do(t, "GET", "/api/events/"+closed+"/booths", "", "")
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, string(env.Data), `"available":false`)

	body := `{"firstName":"Ann","lastName":"Lee","email":"ann@x.com","company":"Acme"}`
	tests := []Test{
		{description: "booking closed", route: "/api/events/" + closed + "/booths/std/bookings", bodyinput: body, expectedCode: 409},
		{description: "unknown option", route: "/api/events/" + open + "/booths/gold/bookings", bodyinput: body, expectedCode: 404},
		{description: "missing company", route: "/api/events/" + open + "/booths/pro/bookings", bodyinput: `{"firstName":"Ann","lastName":"Lee","email":"ann@x.com"}`, expectedCode: 400},
		{
			description:  "booth booked",
			route:        "/api/events/" + open + "/booths/pro/bookings",
			bodyinput:    body,
			expectedCode: 201,
			expectedBody: "Thank you for your interest in Expo. We will contact you shortly at ann@x.com to confirm your booth booking.",
		},
	}
	for _, test := range tests {
		res, env := ta.do(t, "POST", test.route, test.bodyinput, "")
		assert.Equalf(t, test.expectedCode, res.StatusCode, test.description)
		if test.expectedBody != "" {
			assert.Equalf(t, test.expectedBody, env.Message, test.description)
		}
	}

	bookings, err := ta.cols.BoothBookings.All(context.Background(), database.Query{})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	id := bookings[0].Id.Hex()
	assert.Equal(t, []string{"Table", "Banner"}, bookings[0].BoothOption.Items)

	token := ta.login(t)
	res, env = ta.do(t, "GET", "/api/admin/booth-bookings?event="+open, "", token)
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, string(env.Data), `"status":"pending"`)

	res, _ = ta.do(t, "PATCH", "/api/admin/booth-bookings/"+id+"/status", `{"status":"shipped"}`, token)
	assert.Equal(t, 400, res.StatusCode)

	res, env = ta.do(t, "PATCH", "/api/admin/booth-bookings/"+id+"/status", `{"status":"confirmed"}`, token)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "Status updated successfully!", env.Message)

	var table struct {
		Rows []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"rows"`
		Filter struct {
			Event string `json:"event"`
		} `json:"filter"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &table))
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "confirmed", table.Rows[0].Status)
	assert.Equal(t, open, table.Filter.Event, "the event filter survives the update")

	stored, err := ta.cols.BoothBookings.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, stored.Status)

	res, _ = ta.do(t, "PATCH", "/api/admin/booth-bookings/000000000000000000000000/status", `{"status":"confirmed"}`, token)
	assert.Equal(t, 404, res.StatusCode)
}

func TestBookingsPageUsesCookieSession(t *testing.T) {
	ta := setupApp(t)
	expo := ta.insertEvent(t, model.Event{Title: "Expo", StartDate: model.ParseInstant("2025-09-01"), Price: 15})

	res, env := ta.do(t, "POST", "/api/events/"+expo+"/bookings", `{"name":"Ann","email":"ann@x.com","phone":"555","tickets":2}`, "")
	assert.Equal(t, 201, res.StatusCode)
	assert.Contains(t, string(env.Data), `"totalPrice":30`)

	res, _ = ta.do(t, "POST", "/api/events/"+expo+"/bookings", `{"name":"Ann","email":"ann@x.com","phone":"555","tickets":6}`, "")
	assert.Equal(t, 400, res.StatusCode, "at most five tickets per booking")

	session := &http.Cookie{Name: middleware.SessionCookie, Value: ta.login(t)}
	req, _ := http.NewRequest("GET", "/api/admin/bookings?status=pending", nil)
	req.AddCookie(session)
	res, env = ta.send(t, req)
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, string(env.Data), `"event":"Expo"`)
	assert.Contains(t, string(env.Data), `"tickets":2`)

	req, _ = http.NewRequest("GET", "/api/admin/bookings?status=cancelled", nil)
	req.AddCookie(session)
	res, env = ta.send(t, req)
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, string(env.Data), `"key":"bookings.empty"`)
	assert.Equal(t, 1, ta.backend.Calls("find", database.BookingsCollection), "filter changes are served from the page cache")

	res, _ = ta.do(t, "POST", "/api/events/"+expo+"/bookings", `{"name":"Bo","email":"bo@x.com","phone":"556","tickets":1}`, "")
	require.Equal(t, 201, res.StatusCode)

	req, _ = http.NewRequest("GET", "/api/admin/bookings", nil)
	req.AddCookie(session)
	res, env = ta.send(t, req)
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, string(env.Data), `"name":"Bo"`, "a page load picks up new bookings")
	assert.Equal(t, 2, ta.backend.Calls("find", database.BookingsCollection))
}

func TestLogoutSignsTheBrowserOut(t *testing.T) {
	ta := setupApp(t)
	site, _ := url.Parse("http://localhost")
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	// send replays the jar's cookies the way a browser would for route
	send := func(method, route, body string) (*http.Response, envelope) {
		req, _ := http.NewRequest(method, route, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		}
		for _, cookie := range jar.Cookies(site.ResolveReference(&url.URL{Path: req.URL.Path})) {
			req.AddCookie(cookie)
		}
		res, env := ta.send(t, req)
		jar.SetCookies(site.ResolveReference(&url.URL{Path: req.URL.Path}), res.Cookies())
		return res, env
	}

	res, _ := send("POST", "/api/auth/login", `{"email":"`+adminEmail+`","password":"`+adminPassword+`"}`)
	require.Equal(t, 200, res.StatusCode)

	res, _ = send("GET", "/admin/dashboard.html", "")
	assert.Equal(t, 200, res.StatusCode, "signed in dashboard is served")

	res, _ = send("GET", "/api/admin/bookings?status=pending", "")
	require.Equal(t, 200, res.StatusCode)

	res, env := send("POST", "/api/admin/logout", "")
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, res.Header.Get("Set-Cookie"), "path=/")
	assert.Contains(t, string(env.Data), `"redirect":"/admin/index.html"`)

	assert.Empty(t, jar.Cookies(site.ResolveReference(&url.URL{Path: "/admin/dashboard.html"})))
	res, _ = send("GET", "/admin/dashboard.html", "")
	assert.Equal(t, 302, res.StatusCode)
	assert.Equal(t, "/admin/index.html", res.Header.Get("Location"))

	res, _ = send("GET", "/api/admin/bookings?status=pending", "")
	assert.Equal(t, 400, res.StatusCode, "signed out requests carry no token")

	// a fresh sign-in starts from fresh page state
	res, _ = ta.do(t, "GET", "/api/admin/bookings?status=pending", "", ta.login(t))
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, 2, ta.backend.Calls("find", database.BookingsCollection))
}

func TestPublicEvents(t *testing.T) {
	ta := setupApp(t)
	ta.insertEvent(t, model.Event{Title: "Last Year", StartDate: model.ParseInstant("2024-05-01"), Price: 10})
	upcoming := ta.insertEvent(t, model.Event{
		Title:       "Next Year",
		StartDate:   model.ParseInstant("2030-05-01"),
		StartTime:   "9:00 AM",
		Description: "A **big** day",
	})

	res, env := ta.do(t, "GET", "/api/events", "", "")
	assert.Equal(t, 200, res.StatusCode)

	var lists struct {
		Upcoming []handlers.EventSummary `json:"upcoming"`
		Past     []handlers.EventSummary `json:"past"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &lists))
	require.Len(t, lists.Upcoming, 1)
	require.Len(t, lists.Past, 1)
	assert.Equal(t, "Next Year", lists.Upcoming[0].Title)
	assert.Equal(t, "Free", lists.Upcoming[0].Cost)
	assert.Equal(t, "May 1 @ 9:00 AM", lists.Upcoming[0].When)
	assert.Empty(t, lists.Upcoming[0].Year)
	assert.Equal(t, "2024", lists.Past[0].Year)
	assert.Empty(t, lists.Past[0].Cost)

	res, env = ta.do(t, "GET", "/api/events/"+upcoming, "", "")
	assert.Equal(t, 200, res.StatusCode)
	var detail struct {
		DescriptionHTML string `json:"descriptionHtml"`
		TicketOptions   []int  `json:"ticketOptions"`
		PriceLabel      string `json:"priceLabel"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Contains(t, detail.DescriptionHTML, "<strong>big</strong>")
	assert.Equal(t, []int{1, 2, 3, 4, 5}, detail.TicketOptions)
	assert.Equal(t, "Free", detail.PriceLabel)

	res, _ = ta.do(t, "GET", "/api/events/not-an-id", "", "")
	assert.Equal(t, 404, res.StatusCode)
}

func TestNoUpcomingEventsPlaceholder(t *testing.T) {
	ta := setupApp(t)
	ta.insertEvent(t, model.Event{Title: "Last Year", StartDate: model.ParseInstant("2024-05-01")})

	_, env := ta.do(t, "GET", "/api/events", "", "")
	assert.Contains(t, string(env.Data), `"upcomingPlaceholder"`)

	_, env = ta.do(t, "GET", "/api/partners/events", "", "")
	assert.Contains(t, string(env.Data), `"placeholder"`)
}

// multipartBody builds a form with plain fields and one file part.
func multipartBody(t *testing.T, fields map[string]string, fileField, fileName, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+fileName+`"`)
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestCreateEventWithImage(t *testing.T) {
	ta := setupApp(t)
	token := ta.login(t)

	payload := `{"title":"Launch","startDate":"2025-07-01","endDate":"2025-07-01","price":0,` +
		`"boothBookingEnabled":true,"boothOptions":[{"name":"Standard","price":500,"items":["Table"]}]}`
	body, contentType := multipartBody(t, map[string]string{"payload": payload}, "image", "poster.png", "image/png", "png-bytes")

	req, _ := http.NewRequest("POST", "/api/admin/events", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	res, env := ta.send(t, req)
	require.Equal(t, 201, res.StatusCode)

	var result struct {
		ID       string `json:"id"`
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "/admin/events", result.Redirect)

	stored, err := ta.cols.Events.Get(context.Background(), result.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stored.ImageURL, "http://localhost:3000/uploads/events/"))
	require.Len(t, stored.BoothOptions, 1)
	assert.NotEmpty(t, stored.BoothOptions[0].ID, "new options get an id")

	req, _ = http.NewRequest("GET", strings.TrimPrefix(stored.ImageURL, "http://localhost:3000"), nil)
	res, err = ta.app.Test(req, -1)
	require.NoError(t, err)
	served, _ := io.ReadAll(res.Body)
	assert.Equal(t, "png-bytes", string(served))

	res, env = ta.do(t, "PUT", "/api/admin/events/"+result.ID, `{"title":"Launch","startDate":"2025-07-02","endDate":"2025-07-01"}`, token)
	assert.Equal(t, 400, res.StatusCode, "end before start")

	res, _ = ta.do(t, "DELETE", "/api/admin/events/"+result.ID, "", token)
	assert.Equal(t, 200, res.StatusCode)
	res, _ = ta.do(t, "GET", "/api/admin/events/"+result.ID+"/form", "", token)
	assert.Equal(t, 404, res.StatusCode)
}

func TestPartnerApplication(t *testing.T) {
	ta := setupApp(t)
	expo := ta.insertEvent(t, model.Event{Title: "Expo", StartDate: model.ParseInstant("2025-09-01")})

	fields := map[string]string{
		"eventId":      expo,
		"name":         "Sue",
		"email":        "sue@x.com",
		"organization": "Acme",
		"talkTitle":    "Event platforms",
	}

	tests := []struct {
		description  string
		route        string
		contentType  string
		expectedCode int
	}{
		{"unknown partner type", "/api/partners/caterer", "application/pdf", 404},
		{"bio of the wrong type", "/api/partners/speaker", "text/plain", 400},
		{"speaker with bio", "/api/partners/speaker", "application/pdf", 201},
	}

	for _, test := range tests {
		body, contentType := multipartBody(t, fields, "bio", "cv.pdf", test.contentType, "%PDF-1.4")
		req, _ := http.NewRequest("POST", test.route, body)
		req.Header.Set("Content-Type", contentType)
		res, _ := ta.send(t, req)
		assert.Equalf(t, test.expectedCode, res.StatusCode, test.description)
	}

	partners, err := ta.cols.Partners.All(context.Background(), database.Query{})
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, model.PartnerSpeaker, partners[0].Type())
	assert.Equal(t, "Expo", partners[0].EventTitle)
	assert.Equal(t, model.PartnerPending, partners[0].Status)
	assert.Contains(t, partners[0].BioURL, "/uploads/partners/speaker/")
	objectPath := partners[0].BioURL[strings.Index(partners[0].BioURL, "/uploads/")+len("/uploads/"):]
	bio, err := os.ReadFile(filepath.Join(ta.uploads, filepath.FromSlash(objectPath)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(bio))

	token := ta.login(t)
	res, env := ta.do(t, "GET", "/api/admin/partners/speaker", "", token)
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, string(env.Data), `"talkTitle":"Event platforms"`)

	res, env = ta.do(t, "GET", "/api/admin/partners/sponsor", "", token)
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, string(env.Data), `"text":"No sponsors found."`)

	res, _ = ta.do(t, "PATCH", "/api/admin/partners/speaker/"+partners[0].Id.Hex()+"/status", `{"status":"approved"}`, token)
	assert.Equal(t, 200, res.StatusCode)
	stored, err := ta.cols.Partners.Get(context.Background(), partners[0].Id.Hex())
	require.NoError(t, err)
	assert.Equal(t, model.PartnerApproved, stored.Status)
}
