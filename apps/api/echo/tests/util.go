package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/classwork/apps/api/echo"
	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/classwork"
	"github.com/trezcool/classwork/core/user"
	"github.com/trezcool/classwork/storage/database/inmem"
)

var (
	errMissingToken = httpErr{Message: "missing or malformed jwt"}
	errForbidden    = httpErr{Message: "permission denied"}
)

const testPassword = "c0mpl3x!pass"

type deps struct {
	app    *Server
	usrSvc *user.Service
	cwSvc  *classwork.Service
}

func testConfig() *core.Config {
	return &core.Config{
		Env:      "TEST",
		TestMode: true,
		AppName:  "Classwork",
		API:      core.APIConfig{Timeout: 5 * time.Second},
		Server: core.ServerConfig{
			SecretKey:          "test-secret",
			JWTExpirationDelta: time.Hour,
		},
	}
}

func setup(t *testing.T) deps {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrSvc := user.NewService(inmemdb.NewUserRepository(db))
	cwSvc := classwork.NewService(inmemdb.NewAssignmentRepository(db))

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	user.InitValidators(validate, translator)

	app := NewServer(testConfig(), core.NopLogger(), usrSvc, cwSvc, validate, translator, Options{DisableReqLogs: true})
	return deps{app: app, usrSvc: usrSvc, cwSvc: cwSvc}
}

func createUser(t *testing.T, svc *user.Service, name, email string, role user.Role) user.User {
	usr, err := svc.Register(context.Background(), user.NewUser{Name: name, Email: email, Password: testPassword, Role: role})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func createAssignment(t *testing.T, svc *classwork.Service, teacher user.User, title string) classwork.Assignment {
	a, err := svc.Create(context.Background(), teacher, classwork.NewAssignment{Title: title, Description: "x", DueDate: "2025-01-01"})
	if err != nil {
		t.Fatalf("createAssignment() failed: %v", err)
	}
	return a
}

type httpErr struct {
	Message string `json:"message"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, app *Server, usr user.User) string {
	token, err := app.GenerateToken(usr)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
